// Package repositories implements SQLite persistence for the player's session history.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// They support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [HistoryRepository] : Play events for the current session, newest-first lookups
//   - [HistoryRecorder] : Adapts [HistoryRepository] to the playback session's recorder contract
//
// Sequence numbers provide stable ordering (e.g., play #42) independent of UUIDs and timestamps,
// which can collide when tracks are skipped quickly.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

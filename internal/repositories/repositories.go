package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist or was soft-deleted.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownTable is returned by [NextSequence] for tables without a sequence counter.
	ErrUnknownTable = errors.New("table has no sequence")
)

// sequenceTables maps each sequenced table to its single-row counter table.
var sequenceTables = map[string]string{
	"play_history": "play_history_sequence",
}

// NextSequence increments and returns the insertion counter for table.
//
// Sequences order rows that share a timestamp; they are never shown to users.
func NextSequence(db *sql.DB, table string) (int, error) {
	counter, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	var next int
	err := db.QueryRow("UPDATE " + counter + " SET value = value + 1 WHERE id = 1 RETURNING value").Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s has no counter row", ErrNotFound, counter)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", counter, err)
	}
	return next, nil
}

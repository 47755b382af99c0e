// Package models defines domain entities and persistence interfaces for the saregama player.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from the remote catalog
//   - [Song] : a catalog entry with an optional direct media URL
//
// 2. Persistent Entities: session-scoped records with lifecycle management
//   - [PlayEvent] : one playback of one song, from start to its outcome
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models

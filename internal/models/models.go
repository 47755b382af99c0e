// package models defines the data model for the saregama player
package models

import (
	"time"
)

// Model is a persisted row: a generated ID, an insertion sequence and audit timestamps.
type Model interface {
	ID() string
	Sequence() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is CRUD over one table of T.
//
// Delete is soft: deleted rows are hidden from Get and List. List matches each criteria key
// against the column of the same name and returns rows in sequence order.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}

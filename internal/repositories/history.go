package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/shared"
)

const historyColumns = `id, sequence, song_id, song_name, url, outcome, started_at, ended_at, created_at, updated_at, deleted_at`

// HistoryRepository implements models.Repository[*models.PlayEvent] for session play history.
type HistoryRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PlayEvent] = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new [models.PlayEvent] with generated ID and sequence
func (r *HistoryRepository) Create(event *models.PlayEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "play_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	event.SetID(id)
	event.SetSequence(sequence)

	query := `
		INSERT INTO play_history (id, sequence, song_id, song_name, url, outcome, started_at, ended_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		event.SongID(),
		event.SongName(),
		event.URL(),
		string(event.Outcome()),
		event.StartedAt(),
		event.EndedAt(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert play event: %w", err)
	}

	return nil
}

// Get retrieves a play event by ID, excluding soft-deleted events
func (r *HistoryRepository) Get(id string) (*models.PlayEvent, error) {
	query := `SELECT ` + historyColumns + ` FROM play_history WHERE id = ? AND deleted_at IS NULL`

	event, err := scanPlayEvent(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: play event %s", ErrNotFound, id)
	}
	return event, err
}

// Update writes the outcome and end time of an existing play event
func (r *HistoryRepository) Update(event *models.PlayEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	event.SetUpdatedAt(now)

	query := `
		UPDATE play_history
		SET outcome = ?, ended_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, string(event.Outcome()), event.EndedAt(), now, event.ID())
	if err != nil {
		return fmt.Errorf("failed to update play event: %w", err)
	}

	return expectOneRow(result, event.ID())
}

// Delete soft-deletes a play event by ID
func (r *HistoryRepository) Delete(id string) error {
	query := `UPDATE play_history SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete play event: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves play events in play order.
//
// Supported criteria: "song_id" (string) and "outcome" ([models.PlayOutcome] or string).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.PlayEvent, error) {
	query := `SELECT ` + historyColumns + ` FROM play_history WHERE deleted_at IS NULL`
	args := []any{}

	if songID, ok := criteria["song_id"].(string); ok && songID != "" {
		query += " AND song_id = ?"
		args = append(args, songID)
	}

	switch outcome := criteria["outcome"].(type) {
	case models.PlayOutcome:
		query += " AND outcome = ?"
		args = append(args, string(outcome))
	case string:
		if outcome != "" {
			query += " AND outcome = ?"
			args = append(args, outcome)
		}
	}

	query += " ORDER BY sequence ASC"
	return r.query(query, args...)
}

// Recent returns up to limit play events, newest first
func (r *HistoryRepository) Recent(limit int) ([]*models.PlayEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + historyColumns + ` FROM play_history WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT ?`
	return r.query(query, limit)
}

func (r *HistoryRepository) query(query string, args ...any) ([]*models.PlayEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	var events []*models.PlayEvent
	for rows.Next() {
		event, err := scanPlayEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanPlayEvent scans a single row into a [models.PlayEvent]. [sql.ErrNoRows] is returned unwrapped.
func scanPlayEvent(row scanner) (*models.PlayEvent, error) {
	var (
		id        string
		sequence  int
		songID    string
		songName  string
		url       string
		outcome   string
		startedAt time.Time
		endedAt   sql.NullTime
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &songID, &songName, &url, &outcome, &startedAt, &endedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan play event: %w", err)
	}

	return models.RestorePlayEvent(
		id, sequence, songID, songName, url, models.PlayOutcome(outcome),
		startedAt, nullTime(endedAt), createdAt, updatedAt, nullTime(deletedAt),
	), nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: play event %s", ErrNotFound, id)
	}
	return nil
}

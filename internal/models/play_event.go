package models

import (
	"errors"
	"time"
)

// PlayOutcome records how a playback ended.
type PlayOutcome string

const (
	OutcomeStarted   PlayOutcome = "started"
	OutcomeCompleted PlayOutcome = "completed"
	OutcomeSkipped   PlayOutcome = "skipped"
	OutcomeFailed    PlayOutcome = "failed"
)

// Valid reports whether o is a known outcome.
func (o PlayOutcome) Valid() bool {
	switch o {
	case OutcomeStarted, OutcomeCompleted, OutcomeSkipped, OutcomeFailed:
		return true
	}
	return false
}

// PlayEvent is one playback of one song within the current session.
type PlayEvent struct {
	id        string
	sequence  int
	songID    string
	songName  string
	url       string
	outcome   PlayOutcome
	startedAt time.Time
	endedAt   *time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*PlayEvent)(nil)

// NewPlayEvent creates a started [PlayEvent] for song resolved to url.
func NewPlayEvent(sequence int, song Song, url string, startedAt time.Time) *PlayEvent {
	return &PlayEvent{
		sequence:  sequence,
		songID:    song.ID,
		songName:  song.Name,
		url:       url,
		outcome:   OutcomeStarted,
		startedAt: startedAt,
		createdAt: startedAt,
		updatedAt: startedAt,
	}
}

// RestorePlayEvent rebuilds a [PlayEvent] from stored columns.
func RestorePlayEvent(
	id string, sequence int, songID, songName, url string, outcome PlayOutcome,
	startedAt time.Time, endedAt *time.Time, createdAt, updatedAt time.Time, deletedAt *time.Time,
) *PlayEvent {
	return &PlayEvent{
		id:        id,
		sequence:  sequence,
		songID:    songID,
		songName:  songName,
		url:       url,
		outcome:   outcome,
		startedAt: startedAt,
		endedAt:   endedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (e *PlayEvent) ID() string               { return e.id }
func (e *PlayEvent) Sequence() int            { return e.sequence }
func (e *PlayEvent) SongID() string           { return e.songID }
func (e *PlayEvent) SongName() string         { return e.songName }
func (e *PlayEvent) URL() string              { return e.url }
func (e *PlayEvent) Outcome() PlayOutcome     { return e.outcome }
func (e *PlayEvent) StartedAt() time.Time     { return e.startedAt }
func (e *PlayEvent) EndedAt() *time.Time      { return e.endedAt }
func (e *PlayEvent) CreatedAt() time.Time     { return e.createdAt }
func (e *PlayEvent) UpdatedAt() time.Time     { return e.updatedAt }
func (e *PlayEvent) DeletedAt() *time.Time    { return e.deletedAt }
func (e *PlayEvent) SetID(id string)          { e.id = id }
func (e *PlayEvent) SetSequence(seq int)      { e.sequence = seq }
func (e *PlayEvent) SetUpdatedAt(t time.Time) { e.updatedAt = t }

// Finish stamps the outcome and end time.
func (e *PlayEvent) Finish(outcome PlayOutcome, at time.Time) {
	e.outcome = outcome
	e.endedAt = &at
	e.updatedAt = at
}

// Validate checks required fields.
func (e *PlayEvent) Validate() error {
	if e.songID == "" {
		return errors.New("song id is required")
	}
	if e.url == "" {
		return errors.New("url is required")
	}
	if !e.outcome.Valid() {
		return errors.New("invalid outcome: " + string(e.outcome))
	}
	return nil
}

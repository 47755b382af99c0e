package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/playback"
)

// HistoryRecorder implements playback.Recorder using HistoryRepository.
type HistoryRecorder struct {
	repo *HistoryRepository
	now  func() time.Time
}

var _ playback.Recorder = (*HistoryRecorder)(nil)

// NewHistoryRecorder creates a new HistoryRecorder with the given repository
func NewHistoryRecorder(repo *HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, now: time.Now}
}

// Start stores a started play event and returns its ID.
func (a *HistoryRecorder) Start(song models.Song, url string) (string, error) {
	event := models.NewPlayEvent(0, song, url, a.now())
	if err := a.repo.Create(event); err != nil {
		return "", fmt.Errorf("failed to record play: %w", err)
	}
	return event.ID(), nil
}

// Finish stamps the outcome of the play event with the given ID.
func (a *HistoryRecorder) Finish(id string, outcome models.PlayOutcome) error {
	event, err := a.repo.Get(id)
	if err != nil {
		return err
	}

	event.Finish(outcome, a.now())
	if err := a.repo.Update(event); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

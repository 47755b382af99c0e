package tasks

import (
	"fmt"

	"github.com/desertthunder/saregama/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	RefreshCatalog Phase = iota
	UploadSongs
)

func (p Phase) String() string {
	switch p {
	case RefreshCatalog:
		return "refresh_catalog"
	case UploadSongs:
		return "upload_songs"
	default:
		return ""
	}
}

func refreshingCatalogUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshCatalog,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching songs from %s...", name),
	}
}

func refreshedCatalogUpdate(songs []models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d songs", len(songs)),
		Data:    songs,
	}
}

func uploadingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Uploading %d files...", total),
	}
}

func uploadCompletedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func uploadFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

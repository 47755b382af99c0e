// package services defines the Catalog interface for the remote song catalog
package services

import (
	"context"
	"io"

	"github.com/desertthunder/saregama/internal/models"
)

// Catalog defines the remote song catalog: a list of songs and an upload endpoint.
type Catalog interface {
	// ListSongs fetches the full song list in server order.
	// Any non-success status is an error; partial data is never returned.
	ListSongs(ctx context.Context) ([]models.Song, error)

	// UploadSong submits one audio file under fileName.
	// Callers re-fetch with ListSongs to observe the new catalog.
	UploadSong(ctx context.Context, fileName string, r io.Reader) error

	// Name returns a short description of the catalog (e.g., its base URL)
	Name() string
}

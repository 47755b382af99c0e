// package tasks implements catalog operations for the player.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/saregama/internal/models"
	"github.com/desertthunder/saregama/internal/services"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/samber/lo"
)

// UploadResult is the outcome of uploading a single file.
type UploadResult struct {
	Path    string // Local file path
	Name    string // Song name sent to the catalog
	Success bool
	Error   error
}

// BulkUploadResult contains all data from a bulk upload.
type BulkUploadResult struct {
	Total        int            // Files requested
	Successful   int            // Files accepted by the catalog
	Failed       int            // Files rejected or unreadable
	Results      []UploadResult // Per-file results in request order
	Songs        []models.Song  // Catalog after the re-fetch; nil when it was skipped or failed
	RefreshError error          // Error from the final re-fetch
}

// FailedPaths returns the paths of uploads that did not succeed.
func (r *BulkUploadResult) FailedPaths() []string {
	return lo.FilterMap(r.Results, func(res UploadResult, _ int) (string, bool) {
		return res.Path, !res.Success
	})
}

// CatalogEngine runs catalog operations against a [services.Catalog].
type CatalogEngine struct {
	catalog services.Catalog
}

// NewCatalogEngine creates a new CatalogEngine with the provided catalog.
func NewCatalogEngine(catalog services.Catalog) *CatalogEngine {
	return &CatalogEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Refresh fetches the full song list.
func (e *CatalogEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Song, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, refreshingCatalogUpdate(e.catalog.Name()))
	songs, err := e.catalog.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, refreshedCatalogUpdate(songs))
	return songs, nil
}

// Upload uploads the file at path and re-fetches the catalog.
//
// When the upload lands but the re-fetch does not, the error wraps [shared.ErrRefreshFailed].
//
// An empty name defaults to the file's base name.
func (e *CatalogEngine) Upload(ctx context.Context, progress chan<- ProgressUpdate, path, name string) ([]models.Song, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	res := e.uploadFile(ctx, path, name)
	if !res.Success {
		e.sendProgress(progress, uploadFailedUpdate(1, 1, res.Name, res.Error))
		return nil, res.Error
	}
	e.sendProgress(progress, uploadCompletedUpdate(1, 1, res.Name))

	songs, err := e.Refresh(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	return songs, nil
}

func (e *CatalogEngine) uploadFile(ctx context.Context, path, name string) UploadResult {
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(path)
	}
	res := UploadResult{Path: path, Name: name}

	f, err := os.Open(path)
	if err != nil {
		res.Error = fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		return res
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		res.Error = fmt.Errorf("%w: %s is a directory", shared.ErrInvalidInput, path)
		return res
	}

	if err := e.catalog.UploadSong(ctx, name, f); err != nil {
		res.Error = err
		return res
	}

	res.Success = true
	return res
}

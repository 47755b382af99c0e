package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/desertthunder/saregama/internal/shared"
	"golang.org/x/time/rate"
)

// BulkUploadOpts contains configuration for bulk uploads.
type BulkUploadOpts struct {
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // Uploads per second (default: 2)
}

type uploadJob struct {
	index int
	path  string
}

type indexedResult struct {
	index int
	UploadResult
}

// BulkUpload uploads multiple files concurrently with rate limiting and progress tracking.
//
// Each file is uploaded under its base name. Partial failures are reported per file.
// When at least one upload succeeds the catalog is re-fetched once and returned in the result.
func (e *CatalogEngine) BulkUpload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	paths []string,
	opts BulkUploadOpts,
) (*BulkUploadResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to upload", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	result := &BulkUploadResult{
		Total:   len(paths),
		Results: make([]UploadResult, len(paths)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan uploadJob, len(paths))
	results := make(chan indexedResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.uploadWorker(ctx, &wg, limiter, jobs, results)
	}

	e.sendProgress(prog, uploadingUpdate(len(paths)))
	for i, path := range paths {
		jobs <- uploadJob{index: i, path: path}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	seen := make([]bool, len(paths))
	for res := range results {
		completed++
		seen[res.index] = true
		result.Results[res.index] = res.UploadResult

		if res.Success {
			result.Successful++
			e.sendProgress(prog, uploadCompletedUpdate(completed, len(paths), res.Name))
		} else {
			result.Failed++
			e.sendProgress(prog, uploadFailedUpdate(completed, len(paths), res.Name, res.Error))
		}
	}

	// Jobs abandoned on cancellation are reported as failures.
	for i, ok := range seen {
		if !ok {
			result.Results[i] = UploadResult{Path: paths[i], Name: filepath.Base(paths[i]), Error: ctx.Err()}
			result.Failed++
		}
	}

	if result.Successful == 0 {
		return result, nil
	}

	songs, err := e.Refresh(ctx, prog)
	if err != nil {
		result.RefreshError = err
		return result, nil
	}
	result.Songs = songs
	return result, nil
}

// uploadWorker uploads files from the jobs channel, waiting on the shared limiter before each.
func (e *CatalogEngine) uploadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan uploadJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- indexedResult{index: job.index, UploadResult: e.uploadFile(ctx, job.path, "")}
	}
}

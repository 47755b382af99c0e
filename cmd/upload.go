package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/saregama/internal/shared"
	"github.com/desertthunder/saregama/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Upload sends the files named on the command line to the catalog.
//
// A single file may be given a custom name with --name; several files are uploaded concurrently
// under their base names.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file", shared.ErrMissingArgument)
	}

	name := cmd.String("name")
	if name != "" && len(paths) > 1 {
		return fmt.Errorf("%w: --name applies to a single file", shared.ErrInvalidFlag)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.UploadSongs:
				if update.Step == 0 {
					r.writePlain("📤 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.RefreshCatalog:
				r.writePlain("📥 %s\n", update.Message)
			}
		}
	}()

	if len(paths) == 1 {
		r.logger.Info("uploading", "path", paths[0], "name", name)
		songs, err := r.engine.Upload(ctx, progressCh, paths[0], name)
		close(progressCh)
		<-done
		if errors.Is(err, shared.ErrRefreshFailed) {
			r.writePlainln("✓ Uploaded %s", paths[0])
			r.writePlain("⚠ %v\n", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		r.writePlainln("✓ Uploaded %s (catalog now has %d songs)", paths[0], len(songs))
		return nil
	}

	r.logger.Info("bulk upload", "files", len(paths))
	result, err := r.engine.BulkUpload(ctx, progressCh, paths, tasks.BulkUploadOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Upload Complete!")
	r.writePlain("Uploaded: %d/%d\n", result.Successful, result.Total)

	if result.Failed > 0 {
		r.logger.Warn("some uploads failed", "paths", result.FailedPaths())
		r.writePlain("\nFailed to upload %d files:\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.Path, res.Error)
			}
		}
	}

	if result.RefreshError != nil {
		r.writePlain("\n⚠ Catalog refresh failed: %v\n", result.RefreshError)
	} else if result.Songs != nil {
		r.writePlain("Catalog now has %d songs\n", len(result.Songs))
	}

	if result.Successful == 0 {
		return fmt.Errorf("%w: no files were uploaded", shared.ErrInvalidInput)
	}
	return nil
}

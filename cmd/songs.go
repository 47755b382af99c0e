package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/saregama/internal/formatter"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/urfave/cli/v3"
)

// Songs fetches the catalog and prints it in the requested format.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	switch format {
	case "md":
		format = formatter.FormatMarkdown
	case "txt":
		format = formatter.FormatText
	}
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("%w: --format %q", shared.ErrInvalidFlag, format)
	}

	songs, err := r.engine.Refresh(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch songs: %w", err)
	}
	r.logger.Debug("fetched songs", "count", len(songs))

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(songs, r.mediaBase(), format, path); err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d songs to %s\n", len(songs), path)
		return nil
	}

	if format == formatter.FormatTable {
		formatter.RenderTable(r.output, songs, r.mediaBase(), 0)
		return nil
	}

	data, err := formatter.Export(songs, r.mediaBase(), format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

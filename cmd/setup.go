package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/saregama/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config file from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file already exists", "path", path)
		r.writePlain("✓ Config already present at %s\n", path)
		return nil
	}

	r.logger.Info("config file not found, creating from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Catalog: %s", config.Catalog.BaseURL)
	r.writePlain("Media:   %s\n", config.Catalog.MediaURL)
	r.writePlainln("Next steps:")
	r.writePlain("1. Edit %s, or set %s / %s\n", path, shared.EnvCatalogURL, shared.EnvMediaURL)
	r.writePlain("2. Run 'saregama setup check' to test the catalog\n")
	return nil
}

// SetupCheck validates the loaded configuration and fetches the catalog once.
func (r *Runner) SetupCheck(ctx context.Context, cmd *cli.Command) error {
	if r.config == nil {
		return shared.ErrMissingConfig
	}
	if err := r.config.Validate(); err != nil {
		return err
	}
	r.writePlain("✓ Configuration is valid\n")

	songs, err := r.engine.Refresh(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	r.writePlain("✓ Catalog %s has %d songs\n", r.catalog.Name(), len(songs))
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/desertthunder/saregama/internal/server"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs an in-memory catalog exposing /songs, /upload and /media until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	conf := r.config.Server
	if host := cmd.String("host"); host != "" {
		conf.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		conf.Port = int(port)
	}
	if conf.Port < 0 || conf.Port > 65535 {
		return fmt.Errorf("%w: port %d", shared.ErrInvalidFlag, conf.Port)
	}

	dir := cmd.String("dir")
	if cmd.Bool("watch") && dir == "" {
		return fmt.Errorf("%w: --watch requires --dir", shared.ErrInvalidFlag)
	}

	handler := server.NewCatalogHandler(r.logger)
	if dir != "" {
		n, err := handler.LoadDir(dir)
		if err != nil {
			return err
		}
		r.writePlain("✓ Loaded %d songs from %s\n", n, dir)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if cmd.Bool("watch") {
		go func() {
			if err := handler.Watch(ctx, dir); err != nil {
				r.logger.Error("watch stopped", "dir", dir, "error", err)
			}
		}()
		r.writePlain("Watching %s for new songs\n", dir)
	}

	router := server.NewCatalogRouter(handler, r.logger)
	addr := conf.Addr()

	r.writePlain("Catalog:  http://%s\n", addr)
	r.writePlain("Media:    http://%s/media\n", addr)
	r.writePlain("Routes:   %s\n", strings.Join(router.Routes(), ", "))
	r.writePlain("Point catalog.base_url and catalog.media_url at these to play from it.\n")

	return server.ListenAndServe(ctx, addr, router, r.logger)
}

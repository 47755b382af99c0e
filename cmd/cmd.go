// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/saregama/internal/formatter"
	"github.com/urfave/cli/v3"
)

// playCommand launches the interactive player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file path (overrides log.path)",
			},
		},
		Action: r.Play,
	}
}

// songsCommand lists the catalog.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"ls"},
		Usage:   "List songs in the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
				Value:   formatter.FormatTable,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.Songs,
	}
}

// uploadCommand sends local audio files to the catalog.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload one or more audio files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Song name (single file only, defaults to the file name)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads when sending several files",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Uploads per second when sending several files",
				Value: 2,
			},
		},
		Action: r.Upload,
	}
}

// serveCommand runs a local catalog for development.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a local in-memory catalog server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Seed the catalog with the .mp3 and .wav files in this directory",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep adding audio files that appear in --dir",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the default template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   configPath,
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "check",
				Usage:  "Validate the configuration and reach the catalog",
				Action: r.SetupCheck,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/saregama/internal/playback"
	"github.com/desertthunder/saregama/internal/repositories"
	"github.com/desertthunder/saregama/internal/shared"
	"github.com/desertthunder/saregama/internal/ui"
	"github.com/urfave/cli/v3"
)

// Play launches the interactive player.
//
// Logs go to a rotated file so they do not interfere with rendering. Play history is kept in an
// in-memory database for the life of the process.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	logPath := r.config.Log.Path
	if p := cmd.String("log"); p != "" {
		logPath = p
	}
	fileLogger, err := shared.NewFileLogger(logPath, r.config.Log)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if !playback.AudioAvailable && r.player == nil {
		r.logger.Warn("audio output is not available in this build; songs will not play")
	}

	db, err := shared.NewSessionStore()
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer db.Close()
	history := repositories.NewHistoryRepository(db)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	player := r.player
	if player == nil {
		player = playback.NewBeepEngine(playback.BeepOpts{
			HTTPClient:   r.httpClient,
			Logger:       r.logger,
			TickInterval: r.config.Player.TickInterval(),
			MaxBytes:     r.config.Player.MaxMediaBytes(),
		})
	}

	events := make(chan playback.Event, 64)
	session := playback.NewSession(playback.SessionOpts{
		Engine:       player,
		MediaBaseURL: r.mediaBase(),
		Logger:       r.logger,
		Recorder:     repositories.NewHistoryRecorder(history),
		Sink:         ui.EventSink(ctx, events),
	})

	model := ui.NewModel(ctx, ui.ModelOpts{
		Engine:       r.engine,
		Session:      session,
		Events:       events,
		History:      history,
		MediaBaseURL: r.mediaBase(),
		SeekStep:     r.config.Player.SeekStepDuration(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	session.Close()
	if err != nil {
		return fmt.Errorf("error running player: %w", err)
	}

	return nil
}

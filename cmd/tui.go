package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/desertthunder/chordfinder/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: recommender not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)
	r.logger.Info("starting TUI", "session", r.session.ID, "backend", r.config.Backend.BaseURL)

	model := ui.NewModel(ctx, r.service, r.session, ui.Options{
		Display: r.config.Display,
		WebURL:  r.config.Backend.WebURL,
		Genre:   r.config.Search.Genre,
		Logger:  r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	r.logger.Info("TUI closed", "session", r.session.ID, "results", len(r.session.Results()))
	return nil
}

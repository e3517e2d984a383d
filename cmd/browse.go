package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musiclabel/internal/repositories"
	"github.com/desertthunder/musiclabel/internal/shared"
	"github.com/desertthunder/musiclabel/internal/ui"
)

// Browse launches the interactive terminal catalog browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	// Logs would corrupt the alternate screen, so they go to a file or nowhere.
	if path := cmd.String("log-file"); path != "" {
		fileLogger, closeLog, err := shared.NewFileLogger(path)
		if err != nil {
			return err
		}
		defer closeLog()
		fileLogger.SetLevel(r.logger.GetLevel())
		r.logger = fileLogger
	} else {
		r.logger = shared.NewLogger(io.Discard)
	}

	db, err := r.openDatabase(config, true)
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.NewModel(ctx, repositories.NewArtistRepository(db), repositories.NewAlbumRepository(db))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/desertthunder/dzx/internal/ui"
)

const tuiLogPath = "./tmp/dzx-tui.log"

// useFileLogger redirects logs to a file to avoid interfering with TUI rendering.
func (r *Runner) useFileLogger() error {
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	return nil
}

// downloadUI runs a download under the interactive progress view.
func (r *Runner) downloadUI(ctx context.Context, target models.MediaIdentification, opts tasks.DownloadOpts) error {
	if err := r.useFileLogger(); err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, target, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	result, err := model.Result()
	if err != nil {
		return err
	}
	if result != nil {
		return r.writePlain("✓ %d downloaded, %d skipped, %d failed → %s\n",
			result.Delivered, result.Skipped, result.Failed, result.OutputDir)
	}
	return nil
}

// searchUI lets the user pick a search hit and download it.
func (r *Runner) searchUI(ctx context.Context, query string, results []models.SearchResult) error {
	if len(results) == 0 {
		return r.writePlain("No results for %q\n", query)
	}
	if err := r.session.EnsureAuthenticated(ctx); err != nil {
		return fmt.Errorf("downloads need a login: %w", err)
	}
	if err := r.useFileLogger(); err != nil {
		return err
	}

	opts := tasks.DownloadOpts{
		Tier:      r.tier(""),
		OutputDir: r.config.Settings.DownloadDir,
	}
	model := ui.NewSearchModel(ctx, r.engine, query, results, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

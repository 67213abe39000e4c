package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dzx/internal/formatter"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) requireCache() error {
	if r.tracks == nil {
		return fmt.Errorf("%w: track cache unavailable, run 'dzx setup database' first", shared.ErrServiceUnavailable)
	}
	return nil
}

// CacheList prints cached tracks, most recently resolved first.
//
// Tracks are cached by 'dzx track', 'dzx download' and member resolution.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCache(); err != nil {
		return err
	}

	tracks, err := r.tracks.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	if len(tracks) == 0 && outputFormat(cmd) == formatter.Text {
		return r.writePlain("Cache is empty\n")
	}
	return r.render(cmd, tracks)
}

// CacheDelete removes one cached track.
func (r *Runner) CacheDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCache(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	if err := r.tracks.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("removed cached track", "id", id)
	return r.writePlain("✓ Removed track %s from the cache\n", id)
}

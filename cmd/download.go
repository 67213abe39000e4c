package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/dzx/internal/formatter"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/resolver"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download resolves a target into tracks and downloads each deliverable one.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}

	target, err := r.downloadTarget(ctx, cmd)
	if err != nil {
		return err
	}
	opts := r.downloadOpts(cmd)

	if err := r.session.EnsureAuthenticated(ctx); err != nil {
		return fmt.Errorf("downloads need a login: %w", err)
	}

	if cmd.Bool("ui") {
		return r.downloadUI(ctx, target, opts)
	}

	r.logger.Info("starting download", "type", target.Type, "id", target.ID, "quality", opts.Tier, "output", opts.OutputDir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolveTarget:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.DownloadTrack, tasks.SkipTrack, tasks.FailTrack:
				r.writePlain("   %s\n", update.Message)
			case tasks.Finished:
				r.writePlain("\n%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Run(ctx, progressCh, target, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if outputFormat(cmd) == formatter.Text {
		r.writePlain("\n")
		r.writePlainHeader("Download Complete!")
	}
	return r.render(cmd, result)
}

// downloadTarget reads the target argument: a catalog URL, or a bare id
// whose type comes from --type.
func (r *Runner) downloadTarget(ctx context.Context, cmd *cli.Command) (models.MediaIdentification, error) {
	arg := strings.TrimSpace(cmd.StringArg("target"))
	if arg == "" {
		return models.MediaIdentification{}, fmt.Errorf("%w: expected an id or catalog URL", shared.ErrMissingArgument)
	}
	if resolver.Matches(arg) {
		return r.locator.Parse(ctx, arg)
	}

	mediaType, err := models.ParseMediaType(strings.ToLower(cmd.String("type")))
	if err != nil {
		return models.MediaIdentification{}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	id, err := r.identify(ctx, arg, mediaType)
	if err != nil {
		return models.MediaIdentification{}, err
	}
	return models.MediaIdentification{Type: mediaType, ID: id}, nil
}

func (r *Runner) downloadOpts(cmd *cli.Command) tasks.DownloadOpts {
	return tasks.DownloadOpts{
		Tier:            r.tier(cmd.String("quality")),
		OutputDir:       shared.OrString(cmd.String("output"), r.config.Settings.DownloadDir),
		Workers:         cmd.Int("workers"),
		RateLimit:       cmd.Float("rate"),
		IncludeCredited: cmd.Bool("credited"),
	}
}

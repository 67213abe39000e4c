package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog for one entity type.
//
// With --ref, the reference track's ISRC is tried first for track searches;
// the cache is consulted before resolving the reference.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}

	mediaType, err := models.ParseMediaType(strings.ToLower(cmd.StringArg("type")))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Settings.SearchLimit
	}

	var ref *models.Track
	if refID := cmd.String("ref"); refID != "" {
		if ref, err = r.referenceTrack(ctx, refID); err != nil {
			return err
		}
	}

	r.logger.Info("searching", "type", mediaType, "query", query, "limit", limit)
	results, err := r.resolver.Search(ctx, mediaType, query, ref, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("ui") {
		return r.searchUI(ctx, query, results)
	}
	return r.render(cmd, results)
}

// referenceTrack loads a track's id, title, artists and ISRC from the cache,
// resolving it when it is not cached.
func (r *Runner) referenceTrack(ctx context.Context, id string) (*models.Track, error) {
	if r.tracks != nil {
		cached, err := r.tracks.GetByServiceID(ctx, id)
		switch {
		case err == nil:
			r.logger.Debug("reference track from cache", "id", id, "isrc", cached.ISRC)
			return &models.Track{
				ID:      cached.ServiceID,
				Name:    cached.Title,
				Artists: cached.Artists,
				Album:   cached.Album,
				Tags:    models.Tags{ISRC: cached.ISRC},
			}, nil
		case !errors.Is(err, shared.ErrNotFound):
			r.logger.Warn("track cache lookup failed", "id", id, "error", err)
		}
	}

	track, err := r.resolver.Track(ctx, id, r.tier(""), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference track: %w", err)
	}
	r.cacheTrack(ctx, track)
	return track, nil
}

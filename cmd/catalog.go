package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/dzx/internal/formatter"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/repositories"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Track resolves a single track and caches it.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaTrack)
	if err != nil {
		return err
	}

	r.logger.Info("resolving track", "id", id)
	track, err := r.resolver.Track(ctx, id, r.tier(cmd.String("quality")), nil)
	if err != nil {
		return err
	}
	r.cacheTrack(ctx, track)
	return r.render(cmd, track)
}

// Album resolves an album, and with --tracks every member track.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaAlbum)
	if err != nil {
		return err
	}

	r.logger.Info("resolving album", "id", id)
	album, err := r.resolver.Album(ctx, id, nil)
	if err != nil {
		return err
	}
	if !cmd.Bool("tracks") {
		return r.render(cmd, album)
	}

	tracks, err := r.memberTracks(ctx, album.Tracks, &album.TrackParams, r.tier(cmd.String("quality")))
	if err != nil {
		return err
	}
	return r.renderCollection(cmd, album, tracks)
}

// Playlist resolves a playlist, and with --tracks every member track.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaPlaylist)
	if err != nil {
		return err
	}

	r.logger.Info("resolving playlist", "id", id)
	playlist, err := r.resolver.Playlist(ctx, id, nil)
	if err != nil {
		return err
	}
	if !cmd.Bool("tracks") {
		return r.render(cmd, playlist)
	}

	tracks, err := r.memberTracks(ctx, playlist.Tracks, &playlist.TrackParams, r.tier(cmd.String("quality")))
	if err != nil {
		return err
	}
	return r.renderCollection(cmd, playlist, tracks)
}

// Artist resolves an artist and their discography.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaArtist)
	if err != nil {
		return err
	}

	r.logger.Info("resolving artist", "id", id, "credited", cmd.Bool("credited"))
	artist, err := r.resolver.Artist(ctx, id, cmd.Bool("credited"), "")
	if err != nil {
		return err
	}
	return r.render(cmd, artist)
}

// Resolve parses a catalog URL and resolves the entity it points at.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("url")
	if link == "" {
		return fmt.Errorf("%w: expected a catalog URL", shared.ErrMissingArgument)
	}

	ident, err := r.locator.Parse(ctx, link)
	if err != nil {
		return err
	}
	if cmd.Bool("id-only") {
		if outputFormat(cmd) == formatter.JSON {
			return r.render(cmd, ident)
		}
		return r.writePlain("%s %s\n", ident.Type, ident.ID)
	}

	if err := r.requireResolver(); err != nil {
		return err
	}

	var record any
	switch ident.Type {
	case models.MediaTrack:
		track, err := r.resolver.Track(ctx, ident.ID, r.tier(cmd.String("quality")), nil)
		if err != nil {
			return err
		}
		r.cacheTrack(ctx, track)
		record = track
	case models.MediaAlbum:
		record, err = r.resolver.Album(ctx, ident.ID, nil)
	case models.MediaPlaylist:
		record, err = r.resolver.Playlist(ctx, ident.ID, nil)
	case models.MediaArtist:
		record, err = r.resolver.Artist(ctx, ident.ID, false, "")
	default:
		return fmt.Errorf("%w: unsupported entity %s", shared.ErrInvalidLocator, ident.Type)
	}
	if err != nil {
		return err
	}
	return r.render(cmd, record)
}

// Credits lists a track's contributors by role.
func (r *Runner) Credits(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaTrack)
	if err != nil {
		return err
	}

	credits, err := r.resolver.Credits(ctx, id, nil)
	if err != nil {
		return err
	}
	if len(credits) == 0 && outputFormat(cmd) == formatter.Text {
		return r.writePlain("No credits for track %s\n", id)
	}
	return r.render(cmd, credits)
}

// Lyrics fetches a track's lyrics, optionally saving the synchronized lines.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaTrack)
	if err != nil {
		return err
	}

	lyrics, err := r.resolver.Lyrics(ctx, id, nil)
	if err != nil {
		return err
	}

	if path := cmd.String("save"); path != "" {
		if lyrics.Synced == "" {
			return fmt.Errorf("%w: track %s has no synchronized lyrics", shared.ErrNotFound, id)
		}
		if err := os.WriteFile(path, []byte(lyrics.Synced), 0o644); err != nil {
			return fmt.Errorf("failed to write lyrics: %w", err)
		}
		r.logger.Info("lyrics saved", "path", path)
		return r.writePlain("✓ Lyrics saved to %s\n", path)
	}
	return r.render(cmd, lyrics)
}

// Cover builds a cover URL and optionally downloads the image.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireResolver(); err != nil {
		return err
	}
	id, err := r.identify(ctx, cmd.StringArg("id"), models.MediaTrack)
	if err != nil {
		return err
	}

	spec, err := r.coverFlags(cmd)
	if err != nil {
		return err
	}

	cover, err := r.resolver.Cover(ctx, id, spec, nil)
	if err != nil {
		return err
	}

	if path := cmd.String("save"); path != "" {
		data, err := formatter.DownloadImage(ctx, r.httpClient, cover.URL)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write cover: %w", err)
		}
		r.logger.Info("cover saved", "path", path, "size", humanize.Bytes(uint64(len(data))))
		return r.writePlain("✓ Cover saved to %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	}
	return r.render(cmd, cover)
}

// coverFlags overlays the --type, --resolution and --compression flags on the
// configured cover spec.
func (r *Runner) coverFlags(cmd *cli.Command) (models.CoverSpec, error) {
	spec := r.resolver.CoverSpec()
	if s := cmd.String("type"); s != "" {
		ft, err := models.ParseImageFileType(s)
		if err != nil {
			return spec, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		spec.FileType = ft
	}
	if res := cmd.Int("resolution"); res > 0 {
		spec.Resolution = res
	}
	switch c := models.CoverCompression(cmd.String("compression")); c {
	case "":
	case models.CompressionHigh, models.CompressionLow:
		spec.Compression = c
	default:
		return spec, fmt.Errorf("%w: compression must be high or low, got %q", shared.ErrInvalidArgument, c)
	}
	return spec, nil
}

// memberTracks resolves ids in order with the collection's threaded params.
func (r *Runner) memberTracks(ctx context.Context, ids []string, params *models.TrackParams, tier models.QualityTier) ([]*models.Track, error) {
	tracks := make([]*models.Track, 0, len(ids))
	for i, id := range ids {
		r.logger.Debug("resolving member track", "id", id, "step", i+1, "total", len(ids))
		track, err := r.resolver.Track(ctx, id, tier, params)
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", id, err)
		}
		r.cacheTrack(ctx, track)
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (r *Runner) renderCollection(cmd *cli.Command, collection any, tracks []*models.Track) error {
	switch outputFormat(cmd) {
	case formatter.JSON:
		return r.render(cmd, struct {
			Collection any             `json:"collection"`
			Tracks     []*models.Track `json:"tracks"`
		}{collection, tracks})
	case formatter.CSV:
		return r.render(cmd, tracks)
	}

	if err := r.render(cmd, collection); err != nil {
		return err
	}
	for _, t := range tracks {
		r.writePlain("\n")
		if err := r.render(cmd, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) cacheTrack(ctx context.Context, track *models.Track) {
	if r.tracks == nil {
		return
	}
	if err := repositories.NewTrackCacheAdapter(r.tracks).CacheTrack(ctx, track); err != nil {
		r.logger.Warn("failed to cache track", "id", track.ID, "error", err)
	}
}

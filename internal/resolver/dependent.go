package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/desertthunder/dzx/internal/images"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/samber/lo"
)

// Credits lists the contributors of a track, minus the "artist" role which
// duplicates the track's artists. Without a session, or for user uploads,
// the list is empty.
func (r *Resolver) Credits(ctx context.Context, id string, cache map[string]map[string][]string) ([]models.Credit, error) {
	if userUploaded(id) {
		return []models.Credit{}, nil
	}

	contributors, cached := cache[id]
	if !cached {
		privileged, err := r.privileged(ctx)
		if err != nil {
			return nil, err
		}
		if !privileged {
			return []models.Credit{}, nil
		}
		if contributors, err = r.remote.TrackContributors(ctx, id); err != nil {
			return nil, err
		}
	}

	roles := lo.Without(lo.Keys(contributors), "artist")
	slices.Sort(roles)

	credits := make([]models.Credit, 0, len(roles))
	for _, role := range roles {
		credits = append(credits, models.Credit{Role: role, Names: contributors[role]})
	}
	return credits, nil
}

// Cover resolves a track's cover in the given spec. Placeholder images and
// webp requests are served as jpg.
func (r *Resolver) Cover(ctx context.Context, id string, spec models.CoverSpec, cache map[string]string) (*models.Cover, error) {
	hash, cached := cache[id]
	if !cached {
		privileged, err := r.privileged(ctx)
		if err != nil {
			return nil, err
		}
		if privileged {
			t, err := r.remote.TrackData(ctx, id)
			if err != nil {
				return nil, err
			}
			hash = t.Effective().AlbPicture
		} else {
			t, err := r.remote.PublicTrack(ctx, id)
			if err != nil {
				return nil, err
			}
			hash = lo.CoalesceOrEmpty(t.MD5Image, t.Album.MD5Image)
		}
	}

	if spec.Compression == "" {
		spec.Compression = r.cover.Compression
	}
	if spec.Resolution <= 0 {
		spec.Resolution = r.cover.Resolution
	}
	spec.FileType = images.Served(hash, spec.FileType)
	return &models.Cover{
		URL:      images.Cover(hash, spec),
		FileType: spec.FileType,
	}, nil
}

// Lyrics resolves plain and synced lyrics. Every failure reads as "no lyrics".
func (r *Resolver) Lyrics(ctx context.Context, id string, cache map[string]*schema.Lyrics) (*models.Lyrics, error) {
	if userUploaded(id) {
		return &models.Lyrics{}, nil
	}

	raw, cached := cache[id]
	if !cached {
		privileged, err := r.privileged(ctx)
		if err != nil || !privileged {
			return &models.Lyrics{}, nil
		}
		raw, err = r.remote.TrackLyrics(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Debug("no lyrics", "id", id, "error", err)
			return &models.Lyrics{}, nil
		}
	}
	if raw == nil {
		return &models.Lyrics{}, nil
	}

	return &models.Lyrics{Embedded: raw.LyricsText, Synced: syncedLyrics(raw.LyricsSyncJSON)}, nil
}

// syncedLyrics renders LRC text. Lines without a timestamp keep their place
// as a bare newline.
func syncedLyrics(lines []schema.LyricsLine) string {
	var b strings.Builder
	for _, l := range lines {
		if l.LrcTimestamp != "" {
			b.WriteString(l.LrcTimestamp)
			b.WriteString(l.Line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Download fetches the negotiated stream into a fresh temp file. The file
// belongs to the caller once returned.
func (r *Resolver) Download(ctx context.Context, params *models.DownloadParams) (*models.Download, error) {
	if params == nil {
		return nil, credentialRequired("download")
	}
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}
	if !privileged {
		return nil, credentialRequired("download")
	}

	path, err := shared.TempPath(r.tempDir)
	if err != nil {
		return nil, err
	}

	url, err := r.remote.TrackURL(ctx, params.ID, params.TrackToken, params.TrackTokenExpiry, params.Format)
	if err != nil {
		return nil, err
	}

	if err := r.remote.Download(ctx, params.ID, url, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			r.logger.Warn("failed to remove partial download", "path", path, "error", rmErr)
		}
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("downloaded file missing: %w", err)
	}

	r.logger.Info("downloaded track", "id", params.ID, "format", params.Format, "path", path)
	return &models.Download{TempFilePath: path, Format: params.Format, Size: info.Size()}, nil
}

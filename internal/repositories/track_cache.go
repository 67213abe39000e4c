package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/dzx/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Tracks carrying a soft error are not cached since nothing was delivered.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack records a delivered track.
func (a *TrackCacheAdapter) CacheTrack(ctx context.Context, track *models.Track) error {
	if track == nil || track.Error != "" {
		return nil
	}
	if err := a.repo.Upsert(ctx, NewCachedTrack(track)); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}
	return nil
}

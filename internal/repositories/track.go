package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
)

// CachedTrack is a resolved track as persisted in the cache.
type CachedTrack struct {
	ID        string
	ServiceID string
	Title     string
	Artists   []string
	Album     string
	Duration  int
	ISRC      string
	Format    models.FormatTag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCachedTrack converts a resolved track into its cache row.
func NewCachedTrack(t *models.Track) *CachedTrack {
	c := &CachedTrack{
		ServiceID: t.ID,
		Title:     t.Name,
		Artists:   t.Artists,
		Album:     t.Album,
		ISRC:      t.Tags.ISRC,
		Format:    t.Format,
	}
	if t.Duration != nil {
		c.Duration = *t.Duration
	}
	return c
}

// Validate checks the fields the table requires.
func (c *CachedTrack) Validate() error {
	if c.ServiceID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: track title is required", shared.ErrInvalidInput)
	}
	return nil
}

// TrackRepository caches resolved tracks keyed by their upstream id.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

const trackColumns = "id, service_id, title, artists, album, duration, isrc, format, created_at, updated_at"

// Upsert inserts track, or refreshes the row with the same upstream id. The
// cache id is assigned on first insert and kept afterwards.
func (r *TrackRepository) Upsert(ctx context.Context, track *CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ts := now()
	query := `
		INSERT INTO tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(service_id) DO UPDATE SET
			title = excluded.title,
			artists = excluded.artists,
			album = excluded.album,
			duration = excluded.duration,
			isrc = excluded.isrc,
			format = excluded.format,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		track.ServiceID,
		track.Title,
		joinArtists(track.Artists),
		track.Album,
		track.Duration,
		track.ISRC,
		string(track.Format),
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}

	stored, err := r.GetByServiceID(ctx, track.ServiceID)
	if err != nil {
		return err
	}
	*track = *stored
	return nil
}

// GetByServiceID retrieves a track by its upstream id.
func (r *TrackRepository) GetByServiceID(ctx context.Context, serviceID string) (*CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE service_id = ?"
	return scanTrack(r.db.QueryRowContext(ctx, query, serviceID))
}

// GetByISRC retrieves the most recently updated track with the given ISRC.
func (r *TrackRepository) GetByISRC(ctx context.Context, isrc string) (*CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE isrc = ? ORDER BY updated_at DESC LIMIT 1"
	return scanTrack(r.db.QueryRowContext(ctx, query, isrc))
}

// List returns cached tracks, most recent first. limit <= 0 returns all rows.
func (r *TrackRepository) List(ctx context.Context, limit int) ([]*CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks ORDER BY updated_at DESC, service_id ASC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []*CachedTrack{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Delete removes a track by upstream id.
func (r *TrackRepository) Delete(ctx context.Context, serviceID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tracks WHERE service_id = ?", serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, serviceID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (*CachedTrack, error) {
	var (
		track   CachedTrack
		artists string
		format  string
	)

	err := row.Scan(
		&track.ID,
		&track.ServiceID,
		&track.Title,
		&artists,
		&track.Album,
		&track.Duration,
		&track.ISRC,
		&format,
		&track.CreatedAt,
		&track.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track.Artists = splitArtists(artists)
	track.Format = models.FormatTag(format)
	return &track, nil
}

package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// Resolver is the subset of the resolver the engine drives.
type Resolver interface {
	Track(ctx context.Context, id string, tier models.QualityTier, params *models.TrackParams) (*models.Track, error)
	Album(ctx context.Context, id string, cache map[string]*schema.AlbumPage) (*models.Album, error)
	Playlist(ctx context.Context, id string, cache map[string]*schema.PlaylistPage) (*models.Playlist, error)
	Artist(ctx context.Context, id string, includeCredited bool, name string) (*models.Artist, error)
	Download(ctx context.Context, params *models.DownloadParams) (*models.Download, error)
}

// TrackCacher persists delivered tracks.
type TrackCacher interface {
	CacheTrack(ctx context.Context, track *models.Track) error
}

// DownloadOpts configure a single [DownloadEngine.Run].
type DownloadOpts struct {
	Tier            models.QualityTier
	OutputDir       string  // Destination directory (default: ./downloads)
	Workers         int     // Concurrent downloads (default: 1, max: 4)
	RateLimit       float64 // Track resolutions per second (default: 5)
	IncludeCredited bool    // Artist targets also pull albums the artist is only credited on
}

// TrackResult is the outcome for one track.
type TrackResult struct {
	ID    string
	Track *models.Track // nil when resolution failed
	Path  string        // final file path when delivered
	Size  int64
	Err   error
}

// Delivered reports whether the file was written.
func (r *TrackResult) Delivered() bool {
	return r.Err == nil && r.Path != ""
}

// Skipped reports whether the track was withheld by a soft error.
func (r *TrackResult) Skipped() bool {
	return r.Err == nil && r.Path == "" && r.Track != nil && r.Track.Error != ""
}

// Label is "Artist - Title", or the id before resolution.
func (r *TrackResult) Label() string {
	if r.Track == nil {
		return r.ID
	}
	return trackLabel(r.Track)
}

// RunResult summarizes a [DownloadEngine.Run].
type RunResult struct {
	Target    models.MediaIdentification
	Name      string
	OutputDir string
	Tracks    []TrackResult // in listing order
	Delivered int
	Skipped   int
	Failed    int
	Bytes     int64
	// Errors holds expansion failures, such as a discography album that
	// could not be resolved.
	Errors []error
}

type trackJob struct {
	index  int
	id     string
	params *models.TrackParams
}

// DownloadEngine resolves and downloads tracks for a catalog target.
type DownloadEngine struct {
	resolver Resolver
	cacher   TrackCacher
	logger   *log.Logger
}

// NewDownloadEngine creates a new DownloadEngine. cacher may be nil.
func NewDownloadEngine(resolver Resolver, cacher TrackCacher, logger *log.Logger) *DownloadEngine {
	return &DownloadEngine{resolver: resolver, cacher: cacher, logger: shared.OrDefault(logger)}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *DownloadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run downloads every deliverable track of target into opts.OutputDir.
//
// Per-track failures are reported in the result. An error is returned only
// when the target itself cannot be resolved, the output directory cannot be
// created, or ctx is cancelled.
func (e *DownloadEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, target models.MediaIdentification, opts DownloadOpts) (*RunResult, error) {
	opts = withDefaults(opts)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(progress, resolvingTargetUpdate(target))
	result := &RunResult{Target: target, OutputDir: opts.OutputDir}

	jobs, err := e.expand(ctx, target, opts, result)
	if err != nil {
		return nil, err
	}
	result.Tracks = make([]TrackResult, len(jobs))
	e.sendProgress(progress, foundTracksUpdate(len(jobs), result.Name))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	queue := make(chan trackJob, len(jobs))
	done := make(chan trackJob, len(jobs))

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go e.worker(ctx, &wg, limiter, queue, done, result, opts)
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		res := &result.Tracks[job.index]
		switch {
		case res.Delivered():
			result.Delivered++
			result.Bytes += res.Size
			e.sendProgress(progress, downloadedUpdate(completed, len(jobs), res))
		case res.Skipped():
			result.Skipped++
			e.sendProgress(progress, skippedUpdate(completed, len(jobs), res))
		default:
			result.Failed++
			e.sendProgress(progress, failedUpdate(completed, len(jobs), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	e.sendProgress(progress, finishedUpdate(result))
	return result, nil
}

func withDefaults(opts DownloadOpts) DownloadOpts {
	opts.OutputDir = shared.OrString(opts.OutputDir, "downloads")
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	opts.Workers = min(opts.Workers, 4)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	return opts
}

// expand turns target into track jobs in listing order.
func (e *DownloadEngine) expand(ctx context.Context, target models.MediaIdentification, opts DownloadOpts, result *RunResult) ([]trackJob, error) {
	var jobs []trackJob
	add := func(ids []string, params *models.TrackParams) {
		for _, id := range ids {
			jobs = append(jobs, trackJob{index: len(jobs), id: id, params: params})
		}
	}

	switch target.Type {
	case models.MediaTrack:
		result.Name = "track " + target.ID
		add([]string{target.ID}, nil)

	case models.MediaAlbum:
		album, err := e.resolver.Album(ctx, target.ID, nil)
		if err != nil {
			return nil, err
		}
		result.Name = album.Name
		add(album.Tracks, &album.TrackParams)

	case models.MediaPlaylist:
		playlist, err := e.resolver.Playlist(ctx, target.ID, nil)
		if err != nil {
			return nil, err
		}
		result.Name = playlist.Name
		add(playlist.Tracks, &playlist.TrackParams)

	case models.MediaArtist:
		artist, err := e.resolver.Artist(ctx, target.ID, opts.IncludeCredited, "")
		if err != nil {
			return nil, err
		}
		result.Name = artist.Name
		for _, albumID := range lo.Uniq(artist.Albums) {
			album, err := e.resolver.Album(ctx, albumID, nil)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				e.logger.Warn("skipping album", "id", albumID, "error", err)
				result.Errors = append(result.Errors, fmt.Errorf("album %s: %w", albumID, err))
				continue
			}
			add(album.Tracks, &album.TrackParams)
		}

	default:
		return nil, fmt.Errorf("%w: media type %s", shared.ErrInvalidArgument, target.Type)
	}

	return jobs, nil
}

func (e *DownloadEngine) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	queue <-chan trackJob,
	done chan<- trackJob,
	result *RunResult,
	opts DownloadOpts,
) {
	defer wg.Done()

	for job := range queue {
		res := &result.Tracks[job.index]
		res.ID = job.id

		if err := limiter.Wait(ctx); err != nil {
			res.Err = err
			done <- job
			continue
		}

		e.processTrack(ctx, job, res, opts)
		done <- job
	}
}

// processTrack fills res for a single job.
func (e *DownloadEngine) processTrack(ctx context.Context, job trackJob, res *TrackResult, opts DownloadOpts) {
	track, err := e.resolver.Track(ctx, job.id, opts.Tier, job.params)
	if err != nil {
		res.Err = fmt.Errorf("failed to resolve track: %w", err)
		return
	}
	res.Track = track
	if track.Error != "" {
		return
	}

	dl, err := e.resolver.Download(ctx, track.Download)
	if err != nil {
		res.Err = fmt.Errorf("download failed: %w", err)
		return
	}

	path := filepath.Join(opts.OutputDir, TrackFilename(track))
	if err := moveFile(dl.TempFilePath, path); err != nil {
		res.Err = err
		return
	}
	res.Path = path
	res.Size = dl.Size

	if e.cacher != nil {
		if err := e.cacher.CacheTrack(ctx, track); err != nil {
			e.logger.Debug("failed to cache track", "id", track.ID, "error", err)
		}
	}
}

func trackLabel(t *models.Track) string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return strings.Join(t.Artists, ", ") + " - " + t.Name
}

// TrackFilename is "{artists} - {title} [{id}].{ext}" with path separators
// and reserved characters replaced.
func TrackFilename(t *models.Track) string {
	ext := "mp3"
	if t.Codec == models.CodecFLAC {
		ext = "flac"
	}
	name := fmt.Sprintf("%s [%s].%s", trackLabel(t), t.ID, ext)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open downloaded file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy downloaded file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return os.Remove(src)
}

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/formatter"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/repositories"
	"github.com/desertthunder/dzx/internal/resolver"
	"github.com/desertthunder/dzx/internal/services"
	"github.com/desertthunder/dzx/internal/session"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	remote     services.Remote
	store      session.TokenStore
	tracks     *repositories.TrackRepository
	session    *session.Manager
	resolver   *resolver.Resolver
	locator    *resolver.Locator
	engine     *tasks.DownloadEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Remote is the catalog client. Catalog commands fail with
	// [shared.ErrServiceUnavailable] when it is nil.
	Remote services.Remote
	// Store persists the session token; nil keeps it in memory only.
	Store session.TokenStore
	// Tracks caches resolved tracks; nil disables the cache.
	Tracks     *repositories.TrackRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		remote:     opts.Remote,
		store:      opts.Store,
		tracks:     opts.Tracks,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		locator:    resolver.NewLocator(opts.HTTPClient),
	}
	r.wire()
	return r
}

// wire builds the session, resolver and download engine around the remote.
// An existing session is kept so a rewire never drops a login.
func (r *Runner) wire() {
	if r.remote == nil {
		return
	}

	if r.session == nil {
		r.session = r.newSession()
	}

	r.resolver = resolver.New(r.remote, r.session, resolver.Options{
		Cover:  r.coverSpec(),
		Logger: r.logger,
	})

	var cacher tasks.TrackCacher
	if r.tracks != nil {
		cacher = repositories.NewTrackCacheAdapter(r.tracks)
	}
	r.engine = tasks.NewDownloadEngine(r.resolver, cacher, r.logger)
}

func (r *Runner) newSession() *session.Manager {
	deezer := r.config.Credentials.Deezer
	return session.New(r.remote, r.store, session.Credentials{
		ClientID:      deezer.ClientID,
		ClientSecret:  deezer.ClientSecret,
		SigningSecret: deezer.BFSecret,
		Email:         deezer.Email,
		Password:      deezer.Password,
		Token:         deezer.ARL,
	}, session.Options{
		Tier:                     r.tier(""),
		DisableSubscriptionCheck: r.config.Settings.DisableSubscriptionCheck,
		Logger:                   r.logger,
	})
}

// SetLogger swaps the logger for the resolver and download engine. The
// session keeps the logger it was built with.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.wire()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, statusCommand,
		trackCommand, albumCommand, playlistCommand, artistCommand, resolveCommand,
		searchCommand, creditsCommand, lyricsCommand, coverCommand,
		downloadCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requireResolver() error {
	if r.resolver == nil {
		return fmt.Errorf("%w: catalog client not initialized, check [credentials.deezer] in config.toml", shared.ErrServiceUnavailable)
	}
	return nil
}

// tier parses override, falling back to the configured quality and then lossless.
func (r *Runner) tier(override string) models.QualityTier {
	for _, s := range []string{override, r.config.Settings.Quality} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		t, err := models.ParseQualityTier(s)
		if err == nil {
			return t
		}
		r.logger.Warn("ignoring unknown quality", "quality", s)
	}
	return models.QualityLossless
}

func (r *Runner) coverSpec() models.CoverSpec {
	c := r.config.Cover
	spec := models.CoverSpec{
		FileType:    models.ImageJPG,
		Resolution:  c.Resolution,
		Compression: models.CompressionHigh,
	}
	if ft, err := models.ParseImageFileType(c.FileType); err == nil {
		spec.FileType = ft
	} else if c.FileType != "" {
		r.logger.Warn("ignoring unknown cover file type", "file_type", c.FileType)
	}
	if models.CoverCompression(c.Compression) == models.CompressionLow {
		spec.Compression = models.CompressionLow
	}
	return spec
}

// identify turns an id or catalog URL into an id of the wanted type.
func (r *Runner) identify(ctx context.Context, arg string, want models.MediaType) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%w: expected a %s id or URL", shared.ErrMissingArgument, want)
	}

	if !resolver.Matches(arg) {
		if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
			return "", fmt.Errorf("%w: %q is neither a %s id nor a catalog URL", shared.ErrInvalidArgument, arg, want)
		}
		return arg, nil
	}

	ident, err := r.locator.Parse(ctx, arg)
	if err != nil {
		return "", err
	}
	if ident.Type != want {
		return "", fmt.Errorf("%w: %s points at a %s, not a %s", shared.ErrInvalidArgument, arg, ident.Type, want)
	}
	return ident.ID, nil
}

// outputFormat reads the --json, --markdown and --csv flags. The first set wins.
func outputFormat(cmd *cli.Command) formatter.Format {
	switch {
	case cmd.Bool("json"):
		return formatter.JSON
	case cmd.Bool("markdown"):
		return formatter.Markdown
	case cmd.Bool("csv"):
		return formatter.CSV
	default:
		return formatter.Text
	}
}

func (r *Runner) render(cmd *cli.Command, v any) error {
	if err := formatter.Render(r.output, outputFormat(cmd), v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

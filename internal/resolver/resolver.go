package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/images"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/services"
	"github.com/desertthunder/dzx/internal/shared"
)

// PublicNotice is the soft error on records built without a session.
const PublicNotice = "public metadata only, downloads need a login: " + shared.CredentialHelp

// Session is the view of the session state the resolver needs.
type Session interface {
	EnsureAuthenticated(ctx context.Context) error
	IsAuthenticated() bool
	Country() string
	Formats() models.FormatSet
}

// Options configure a [Resolver].
type Options struct {
	// Cover holds the default cover settings for record URLs. webp is coerced to jpg.
	Cover models.CoverSpec
	// TempDir receives downloads; empty uses the system temp dir.
	TempDir string
	Logger  *log.Logger
}

// Resolver builds canonical records from either upstream schema.
type Resolver struct {
	remote  services.Remote
	session Session
	cover   models.CoverSpec
	tempDir string
	logger  *log.Logger

	publicOnce sync.Once
}

// New creates a [Resolver].
func New(remote services.Remote, session Session, opts Options) *Resolver {
	cover := opts.Cover
	if cover.FileType == "" || cover.FileType == models.ImageWebP {
		cover.FileType = models.ImageJPG
	}
	if cover.Resolution <= 0 {
		cover.Resolution = 1400
	}
	if cover.Compression == "" {
		cover.Compression = models.CompressionHigh
	}

	return &Resolver{
		remote:  remote,
		session: session,
		cover:   cover,
		tempDir: opts.TempDir,
		logger:  shared.OrDefault(opts.Logger),
	}
}

// CoverSpec returns the default cover spec after coercion.
func (r *Resolver) CoverSpec() models.CoverSpec {
	return r.cover
}

// privileged ensures a session and reports whether the privileged path is
// usable. Missing or rejected credentials select the public path; any other
// login failure is returned.
func (r *Resolver) privileged(ctx context.Context) (bool, error) {
	err := r.session.EnsureAuthenticated(ctx)
	switch {
	case err == nil:
		return true, nil
	case shared.IsCredentialError(err):
		r.publicOnce.Do(func() {
			r.logger.Warn("no usable credentials, falling back to public metadata", "error", err)
		})
		return false, nil
	default:
		return false, err
	}
}

// coverURL builds a URL with the default resolution and compression.
func (r *Resolver) coverURL(hash string, kind models.ImageKind, fileType models.ImageFileType) string {
	spec := r.cover
	spec.FileType = fileType
	if kind == models.ImageCover {
		return images.Cover(hash, spec)
	}
	return images.URL(hash, kind, spec.FileType, spec.Resolution, spec.Compression.Level())
}

// releaseYear reads the year from the first four characters of a date.
func releaseYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// yearOf is [releaseYear] with absence as zero.
func yearOf(date string) int {
	year, _ := releaseYear(date)
	return year
}

func composeTitle(title, version string) string {
	if version = strings.TrimSpace(version); version == "" {
		return title
	}
	return title + " " + version
}

func userUploaded(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), "-")
}

func trackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}

func credentialRequired(what string) error {
	return fmt.Errorf("%w: %s requires a login; %s", shared.ErrMissingCredentials, what, shared.CredentialHelp)
}

package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential errors. Both count as a CredentialError.
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("track token expired")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Lookup errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrTrackNotFound    = fmt.Errorf("track %w", ErrNotFound)
	ErrAlbumNotFound    = fmt.Errorf("album %w", ErrNotFound)
	ErrPlaylistNotFound = fmt.Errorf("playlist %w", ErrNotFound)
	ErrArtistNotFound   = fmt.Errorf("artist %w", ErrNotFound)

	// ErrUnavailable is matched by every [AvailabilityError].
	ErrUnavailable = fmt.Errorf("not available")

	// Input validation errors
	ErrInvalidLocator  = fmt.Errorf("invalid URL")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// CredentialHelp names both accepted credential shapes.
const CredentialHelp = "fill in either email and password, or arl, under [credentials.deezer] in config.toml " +
	"(or set DZX_EMAIL/DZX_PASSWORD or DZX_ARL)"

// IsCredentialError reports whether err means no usable authentication path.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) || errors.Is(err, ErrInvalidCredentials)
}

// AvailabilityError is a region, subscription or uploader restriction. It is
// attached to records as a soft error rather than returned.
type AvailabilityError struct {
	Reason string
}

func (e *AvailabilityError) Error() string { return e.Reason }

func (e *AvailabilityError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable builds an [AvailabilityError].
func Unavailable(reason string) error {
	return &AvailabilityError{Reason: reason}
}

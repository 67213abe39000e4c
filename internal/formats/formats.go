// Package formats decides which stream format to deliver for a requested quality.
//
// [Negotiate] is pure: it never raises, and reports refusals as an
// [shared.AvailabilityError] on the returned [Decision].
package formats

import (
	"slices"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
)

// Availability reasons attached as soft errors.
const (
	ReasonNotAvailable     = "Track not available"
	ReasonRegion           = "Track not available in your country"
	ReasonSubscription     = "Format not available by your subscription"
	ReasonUploaderStreamed = "Cannot download track uploaded by another user"
)

// Baseline is delivered when no premium format exists on the server.
const Baseline = models.FormatMP3128

// premium lists the gated formats, best first.
var premium = []models.FormatTag{models.FormatFLAC, models.FormatMP3320}

var tierFormats = map[models.QualityTier]models.FormatTag{
	models.QualityMinimum:  models.FormatMP3128,
	models.QualityLow:      models.FormatMP3128,
	models.QualityMedium:   models.FormatMP3320,
	models.QualityHigh:     models.FormatMP3320,
	models.QualityLossless: models.FormatFLAC,
	models.QualityHiFi:     models.FormatFLAC,
}

type codecInfo struct {
	codec   models.Codec
	bitrate int
}

var codecs = map[models.FormatTag]codecInfo{
	models.FormatMisc:   {models.CodecMP3, 0},
	models.FormatMP3128: {models.CodecMP3, 128},
	models.FormatMP3320: {models.CodecMP3, 320},
	models.FormatFLAC:   {models.CodecFLAC, 1411},
}

// Stream properties shared by every format the service delivers.
const (
	BitDepth   = 16
	SampleRate = 44.1
)

// ForTier maps a quality tier onto its desired format. Unknown tiers map to [Baseline].
func ForTier(tier models.QualityTier) models.FormatTag {
	if f, ok := tierFormats[tier]; ok {
		return f
	}
	return Baseline
}

// CodecOf returns the codec and bitrate (kbps, zero when unknown) for format.
func CodecOf(format models.FormatTag) (models.Codec, int) {
	info, ok := codecs[format]
	if !ok {
		return models.CodecMP3, 0
	}
	return info.codec, info.bitrate
}

// Request is the per-track input to [Negotiate].
type Request struct {
	Tier                    models.QualityTier
	UserUploaded            bool
	UploaderAllowsStreaming bool
	// Exists flags formats with a non-zero file size on the server.
	Exists map[models.FormatTag]bool
	// Countries where ad-supported streaming is permitted.
	Countries      []string
	AccountCountry string
	Available      models.FormatSet
}

// Decision is the negotiated format. Err is a soft [shared.AvailabilityError];
// Format is always set so the record can still be displayed.
type Decision struct {
	Format  models.FormatTag
	Codec   models.Codec
	Bitrate int
	Err     error
}

func decide(format models.FormatTag, err error) Decision {
	codec, bitrate := CodecOf(format)
	return Decision{Format: format, Codec: codec, Bitrate: bitrate, Err: err}
}

// Negotiate picks the deliverable format for req.
func Negotiate(req Request) Decision {
	if req.UserUploaded {
		if !req.UploaderAllowsStreaming {
			return decide(models.FormatMisc, shared.Unavailable(ReasonUploaderStreamed))
		}
		return decide(models.FormatMisc, nil)
	}

	desired := ForTier(req.Tier)
	if len(req.Countries) == 0 {
		return decide(desired, shared.Unavailable(ReasonNotAvailable))
	}
	if !slices.Contains(req.Countries, req.AccountCountry) {
		return decide(desired, shared.Unavailable(ReasonRegion))
	}

	chosen := Baseline
	for _, f := range Candidates(desired) {
		if req.Exists[f] {
			chosen = f
			break
		}
	}

	if !req.Available.Has(chosen) {
		return decide(chosen, shared.Unavailable(ReasonSubscription))
	}
	return decide(chosen, nil)
}

// Candidates returns the premium formats from desired downwards. A desired
// format outside the premium list yields none, so the caller falls back to
// [Baseline].
func Candidates(desired models.FormatTag) []models.FormatTag {
	i := slices.Index(premium, desired)
	if i < 0 {
		return nil
	}
	return premium[i:]
}

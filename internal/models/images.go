package models

import (
	"fmt"
	"strings"
)

// ImageKind is the CDN path segment for a class of artwork.
type ImageKind string

const (
	ImageCover    ImageKind = "cover"
	ImageArtist   ImageKind = "artist"
	ImagePlaylist ImageKind = "playlist"
	ImageUser     ImageKind = "user"
	ImageMisc     ImageKind = "misc"
	ImageTalk     ImageKind = "talk"
)

// ImageFileType is the requested raster format.
type ImageFileType string

const (
	ImageJPG  ImageFileType = "jpg"
	ImagePNG  ImageFileType = "png"
	ImageWebP ImageFileType = "webp"
)

// ParseImageFileType parses "jpg", "png" or "webp".
func ParseImageFileType(s string) (ImageFileType, error) {
	switch ft := ImageFileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case ImageJPG, ImagePNG, ImageWebP:
		return ft, nil
	case "jpeg":
		return ImageJPG, nil
	}
	return "", fmt.Errorf("unknown image file type %q", s)
}

// CoverCompression selects the JPEG quality used for artwork.
type CoverCompression string

const (
	CompressionHigh CoverCompression = "high"
	CompressionLow  CoverCompression = "low"
)

// Level returns the numeric JPEG quality for the compression setting.
func (c CoverCompression) Level() int {
	if c == CompressionLow {
		return 50
	}
	return 80
}

// MaxCoverResolution is the largest edge length the CDN serves.
const MaxCoverResolution = 3000

// CoverSpec describes how artwork should be requested.
type CoverSpec struct {
	FileType    ImageFileType
	Resolution  int
	Compression CoverCompression
}

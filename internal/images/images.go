// Package images builds CDN artwork URLs from content hashes.
package images

import (
	"fmt"

	"github.com/desertthunder/dzx/internal/models"
)

// CDNBase is the artwork host every URL is rooted at.
const CDNBase = "https://cdn-images.dzcdn.net/images"

// URL returns the CDN address of the image with the given content hash.
//
// Resolution is clamped to [models.MaxCoverResolution]. PNG is served with a
// fixed quality of 100 and no background; every other file type is requested as
// JPG on a black background at the given compression level.
func URL(hash string, kind models.ImageKind, fileType models.ImageFileType, resolution, compression int) string {
	resolution = min(resolution, models.MaxCoverResolution)

	var filename string
	switch fileType {
	case models.ImagePNG:
		filename = fmt.Sprintf("%dx0-none-100-0-0.png", resolution)
	default:
		filename = fmt.Sprintf("%dx0-000000-%d-0-0.jpg", resolution, compression)
	}
	return fmt.Sprintf("%s/%s/%s/%s", CDNBase, kind, hash, filename)
}

// Cover builds a cover URL from a [models.CoverSpec].
func Cover(hash string, spec models.CoverSpec) string {
	return URL(hash, models.ImageCover, spec.FileType, spec.Resolution, spec.Compression.Level())
}

// Thumbnail is the 56px JPG used for search hits and discography entries.
func Thumbnail(hash string, kind models.ImageKind) string {
	return URL(hash, kind, models.ImageJPG, 56, models.CompressionHigh.Level())
}

// Served returns the file type the CDN will actually deliver for hash:
// placeholder images (empty hash) and webp requests come back as JPG.
func Served(hash string, fileType models.ImageFileType) models.ImageFileType {
	if hash == "" || fileType != models.ImagePNG {
		return models.ImageJPG
	}
	return models.ImagePNG
}

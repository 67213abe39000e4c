package images

import (
	"strings"
	"testing"

	"github.com/desertthunder/dzx/internal/models"
)

func TestURL(t *testing.T) {
	t.Run("JPG", func(t *testing.T) {
		got := URL("abc123", models.ImageCover, models.ImageJPG, 1400, 80)
		want := "https://cdn-images.dzcdn.net/images/cover/abc123/1400x0-000000-80-0-0.jpg"
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("PNG", func(t *testing.T) {
		got := URL("abc123", models.ImageArtist, models.ImagePNG, 500, 50)
		want := "https://cdn-images.dzcdn.net/images/artist/abc123/500x0-none-100-0-0.png"
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("WebP Requested As JPG", func(t *testing.T) {
		got := URL("abc123", models.ImageCover, models.ImageWebP, 1000, 80)
		if !strings.HasSuffix(got, "1000x0-000000-80-0-0.jpg") {
			t.Errorf("expected jpg filename, got %s", got)
		}
	})

	t.Run("Clamps Resolution", func(t *testing.T) {
		clamped := URL("hash", models.ImageCover, models.ImageJPG, 4000, 80)
		direct := URL("hash", models.ImageCover, models.ImageJPG, 3000, 80)
		if clamped != direct {
			t.Errorf("expected %s, got %s", direct, clamped)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := URL("hash", models.ImagePlaylist, models.ImagePNG, 1200, 80)
		b := URL("hash", models.ImagePlaylist, models.ImagePNG, 1200, 80)
		if a != b {
			t.Errorf("expected identical URLs, got %s and %s", a, b)
		}
	})
}

func TestCover(t *testing.T) {
	spec := models.CoverSpec{FileType: models.ImageJPG, Resolution: 1400, Compression: models.CompressionLow}
	got := Cover("h", spec)
	want := "https://cdn-images.dzcdn.net/images/cover/h/1400x0-000000-50-0-0.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestThumbnail(t *testing.T) {
	got := Thumbnail("h", models.ImageArtist)
	want := "https://cdn-images.dzcdn.net/images/artist/h/56x0-000000-80-0-0.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestServed(t *testing.T) {
	tt := []struct {
		name     string
		hash     string
		fileType models.ImageFileType
		want     models.ImageFileType
	}{
		{"png with hash", "h", models.ImagePNG, models.ImagePNG},
		{"png placeholder", "", models.ImagePNG, models.ImageJPG},
		{"webp", "h", models.ImageWebP, models.ImageJPG},
		{"jpg", "h", models.ImageJPG, models.ImageJPG},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := Served(tc.hash, tc.fileType); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

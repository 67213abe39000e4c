package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/repositories"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/dustin/go-humanize"
)

func field(buf *bytes.Buffer, label, value string) {
	if value != "" {
		fmt.Fprintf(buf, "%-10s %s\n", label+":", value)
	}
}

func yearString(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprint(year)
}

// streamSummary describes the negotiated stream, e.g. "FLAC (flac, 1,411 kbps, 16-bit/44.1 kHz)".
func streamSummary(t *models.Track) string {
	if t.Format == "" {
		return ""
	}
	rate := "unknown bitrate"
	if t.Bitrate > 0 {
		rate = humanize.Comma(int64(t.Bitrate)) + " kbps"
	}
	return fmt.Sprintf("%s (%s, %s, %d-bit/%s kHz)", t.Format, t.Codec, rate, t.BitDepth, humanize.Ftoa(t.SampleRate))
}

func durationString(d *int) string {
	if d == nil {
		return ""
	}
	return shared.FormatDuration(*d)
}

func toText(v any) ([]byte, error) {
	var buf bytes.Buffer

	switch r := v.(type) {
	case *models.Track:
		field(&buf, "Title", r.Name)
		field(&buf, "Artists", strings.Join(r.Artists, ", "))
		field(&buf, "Album", r.Album)
		field(&buf, "Duration", durationString(r.Duration))
		field(&buf, "Year", yearString(r.ReleaseYear))
		field(&buf, "ISRC", r.Tags.ISRC)
		field(&buf, "Stream", streamSummary(r))
		field(&buf, "Cover", r.CoverURL)
		field(&buf, "Preview", r.PreviewURL)
		field(&buf, "Notice", r.Error)

	case *models.Album:
		field(&buf, "Album", r.Name)
		field(&buf, "Artist", r.Artist)
		field(&buf, "Year", yearString(r.ReleaseYear))
		field(&buf, "Label", r.Label)
		field(&buf, "UPC", r.UPC)
		field(&buf, "Tracks", fmt.Sprint(len(r.Tracks)))
		field(&buf, "Cover", r.CoverURL)
		field(&buf, "Notice", r.Error)
		writeIDs(&buf, r.Tracks)

	case *models.Playlist:
		field(&buf, "Playlist", r.Name)
		field(&buf, "Creator", r.Creator)
		field(&buf, "Year", yearString(r.ReleaseYear))
		field(&buf, "Tracks", fmt.Sprint(len(r.Tracks)))
		field(&buf, "Cover", r.CoverURL)
		field(&buf, "About", r.Description)
		field(&buf, "Notice", r.Error)
		writeIDs(&buf, r.Tracks)

	case *models.Artist:
		field(&buf, "Artist", r.Name)
		field(&buf, "Albums", fmt.Sprint(len(r.Albums)))
		field(&buf, "Notice", r.Error)
		buf.WriteString("\n")
		for _, a := range r.Discography {
			if a.Name == "" {
				fmt.Fprintf(&buf, "  [%s]\n", a.ID)
				continue
			}
			fmt.Fprintf(&buf, "  %s", a.Name)
			if a.ReleaseYear > 0 {
				fmt.Fprintf(&buf, " (%d)", a.ReleaseYear)
			}
			fmt.Fprintf(&buf, " [%s]\n", a.ID)
		}

	case []models.SearchResult:
		if len(r) == 0 {
			buf.WriteString("No results.\n")
		}
		for i, hit := range r {
			fmt.Fprintf(&buf, "%d. %s", i+1, hit.Name)
			if len(hit.Artists) > 0 {
				fmt.Fprintf(&buf, " - %s", strings.Join(hit.Artists, ", "))
			}
			if extra := strings.Join(append(durationParts(hit), hit.Additional...), ", "); extra != "" {
				fmt.Fprintf(&buf, " (%s)", extra)
			}
			fmt.Fprintf(&buf, " [%s %s]\n", hit.Type, hit.ID)
		}

	case []models.Credit:
		if len(r) == 0 {
			buf.WriteString("No credits.\n")
		}
		for _, c := range r {
			fmt.Fprintf(&buf, "%s: %s\n", c.Role, strings.Join(c.Names, ", "))
		}

	case *models.Lyrics:
		switch {
		case r.Synced != "":
			buf.WriteString(r.Synced)
		case r.Embedded != "":
			buf.WriteString(r.Embedded)
			buf.WriteString("\n")
		default:
			buf.WriteString("No lyrics.\n")
		}

	case *models.Cover:
		fmt.Fprintf(&buf, "%s\n", r.URL)

	case *tasks.RunResult:
		fmt.Fprintf(&buf, "%s: %d downloaded (%s), %d skipped, %d failed\n",
			r.Name, r.Delivered, humanize.Bytes(uint64(r.Bytes)), r.Skipped, r.Failed)
		for _, res := range r.Tracks {
			switch {
			case res.Delivered():
				fmt.Fprintf(&buf, "  ✓ %s -> %s\n", res.Label(), res.Path)
			case res.Skipped():
				fmt.Fprintf(&buf, "  - %s: %s\n", res.Label(), res.Track.Error)
			default:
				fmt.Fprintf(&buf, "  ✗ %s: %v\n", res.Label(), res.Err)
			}
		}
		for _, err := range r.Errors {
			fmt.Fprintf(&buf, "  ! %v\n", err)
		}

	case []*repositories.CachedTrack:
		if len(r) == 0 {
			buf.WriteString("Cache is empty.\n")
		}
		for _, t := range r {
			fmt.Fprintf(&buf, "%-12s %s - %s", t.ServiceID, strings.Join(t.Artists, ", "), t.Title)
			if t.Format != "" {
				fmt.Fprintf(&buf, " [%s]", t.Format)
			}
			fmt.Fprintf(&buf, " (%s)\n", humanize.Time(t.UpdatedAt))
		}

	default:
		return nil, unsupported(Text, v)
	}

	return buf.Bytes(), nil
}

func writeIDs(buf *bytes.Buffer, ids []string) {
	if len(ids) == 0 {
		return
	}
	buf.WriteString("\n")
	for i, id := range ids {
		fmt.Fprintf(buf, "  %d. %s\n", i+1, id)
	}
}

func durationParts(hit models.SearchResult) []string {
	if hit.Duration == nil {
		return nil
	}
	return []string{shared.FormatDuration(*hit.Duration)}
}

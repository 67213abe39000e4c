package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/repositories"
	"github.com/desertthunder/dzx/internal/tasks"
)

func durationCell(d *int) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(*d)
}

func trackRow(t *models.Track) []string {
	return []string{
		t.ID,
		t.Name,
		strings.Join(t.Artists, "; "),
		t.Album,
		durationCell(t.Duration),
		t.Tags.ISRC,
		string(t.Format),
		strconv.Itoa(t.Bitrate),
		t.Error,
	}
}

var trackHeaders = []string{"ID", "Title", "Artists", "Album", "Duration", "ISRC", "Format", "Bitrate", "Error"}

func toCSV(v any) ([]byte, error) {
	var rows [][]string

	switch r := v.(type) {
	case *models.Track:
		rows = [][]string{trackHeaders, trackRow(r)}

	case []*models.Track:
		rows = append(rows, trackHeaders)
		for _, t := range r {
			rows = append(rows, trackRow(t))
		}

	case []models.SearchResult:
		rows = append(rows, []string{"Type", "ID", "Name", "Artists", "Duration", "Details", "Image", "Preview"})
		for _, hit := range r {
			rows = append(rows, []string{
				hit.Type.String(),
				hit.ID,
				hit.Name,
				strings.Join(hit.Artists, "; "),
				durationCell(hit.Duration),
				strings.Join(hit.Additional, "; "),
				hit.ImageURL,
				hit.PreviewURL,
			})
		}

	case []models.Credit:
		rows = append(rows, []string{"Role", "Names"})
		for _, c := range r {
			rows = append(rows, []string{c.Role, strings.Join(c.Names, "; ")})
		}

	case *models.Artist:
		rows = append(rows, []string{"ID", "Name", "Artist", "Year", "Cover"})
		for _, a := range r.Discography {
			rows = append(rows, []string{a.ID, a.Name, a.Artist, yearString(a.ReleaseYear), a.CoverURL})
		}

	case *tasks.RunResult:
		rows = append(rows, []string{"ID", "Track", "Status", "Path", "Size", "Detail"})
		for _, res := range r.Tracks {
			status, detail := "delivered", ""
			switch {
			case res.Skipped():
				status, detail = "skipped", res.Track.Error
			case !res.Delivered():
				status, detail = "failed", fmt.Sprint(res.Err)
			}
			rows = append(rows, []string{res.ID, res.Label(), status, res.Path, strconv.FormatInt(res.Size, 10), detail})
		}

	case []*repositories.CachedTrack:
		rows = append(rows, []string{"ID", "Title", "Artists", "Album", "Duration", "ISRC", "Format", "Updated"})
		for _, t := range r {
			rows = append(rows, []string{
				t.ServiceID,
				t.Title,
				strings.Join(t.Artists, "; "),
				t.Album,
				strconv.Itoa(t.Duration),
				t.ISRC,
				string(t.Format),
				t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

	default:
		return nil, unsupported(CSV, v)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

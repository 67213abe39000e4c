package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/dustin/go-humanize"
)

// mdEscape keeps table cells intact.
func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func toMarkdown(v any) ([]byte, error) {
	var buf bytes.Buffer

	switch r := v.(type) {
	case *models.Track:
		fmt.Fprintf(&buf, "# %s\n\n", r.Name)
		if r.CoverURL != "" {
			fmt.Fprintf(&buf, "![Cover](%s)\n\n", r.CoverURL)
		}
		fmt.Fprintf(&buf, "**Artists**: %s\n", strings.Join(r.Artists, ", "))
		if r.Album != "" {
			fmt.Fprintf(&buf, "**Album**: %s\n", r.Album)
		}
		if d := durationString(r.Duration); d != "" {
			fmt.Fprintf(&buf, "**Duration**: %s\n", d)
		}
		if s := streamSummary(r); s != "" {
			fmt.Fprintf(&buf, "**Stream**: %s\n", s)
		}
		if r.Error != "" {
			fmt.Fprintf(&buf, "\n> %s\n", r.Error)
		}

	case *models.Album:
		fmt.Fprintf(&buf, "# %s\n\n", r.Name)
		if r.CoverURL != "" {
			fmt.Fprintf(&buf, "![Cover](%s)\n\n", r.CoverURL)
		}
		fmt.Fprintf(&buf, "**Artist**: %s\n", r.Artist)
		if r.ReleaseYear > 0 {
			fmt.Fprintf(&buf, "**Year**: %d\n", r.ReleaseYear)
		}
		fmt.Fprintf(&buf, "**Tracks**: %d\n", len(r.Tracks))
		writeMarkdownIDs(&buf, r.Tracks)
		if r.Error != "" {
			fmt.Fprintf(&buf, "\n> %s\n", r.Error)
		}

	case *models.Playlist:
		fmt.Fprintf(&buf, "# %s\n\n", r.Name)
		if r.CoverURL != "" {
			fmt.Fprintf(&buf, "![Cover](%s)\n\n", r.CoverURL)
		}
		if r.Description != "" {
			fmt.Fprintf(&buf, "**Description**: %s\n", r.Description)
		}
		fmt.Fprintf(&buf, "**Creator**: %s\n", r.Creator)
		fmt.Fprintf(&buf, "**Tracks**: %d\n", len(r.Tracks))
		writeMarkdownIDs(&buf, r.Tracks)
		if r.Error != "" {
			fmt.Fprintf(&buf, "\n> %s\n", r.Error)
		}

	case *models.Artist:
		fmt.Fprintf(&buf, "# %s\n\n", r.Name)
		buf.WriteString("| ID | Album | Year |\n|---|---|---|\n")
		for _, a := range r.Discography {
			fmt.Fprintf(&buf, "| %s | %s | %s |\n", a.ID, mdEscape(a.Name), yearString(a.ReleaseYear))
		}

	case []models.SearchResult:
		buf.WriteString("| # | Type | ID | Name | Artists | Details |\n|---|---|---|---|---|---|\n")
		for i, hit := range r {
			fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, hit.Type, hit.ID, mdEscape(hit.Name),
				mdEscape(strings.Join(hit.Artists, ", ")),
				mdEscape(strings.Join(append(durationParts(hit), hit.Additional...), ", ")))
		}

	case []models.Credit:
		buf.WriteString("## Credits\n\n")
		for _, c := range r {
			fmt.Fprintf(&buf, "- **%s**: %s\n", c.Role, strings.Join(c.Names, ", "))
		}

	case *models.Lyrics:
		buf.WriteString("## Lyrics\n\n```\n")
		buf.WriteString(strings.TrimRight(r.Synced+r.Embedded, "\n"))
		buf.WriteString("\n```\n")

	case *models.Cover:
		fmt.Fprintf(&buf, "![Cover](%s)\n", r.URL)

	case *tasks.RunResult:
		fmt.Fprintf(&buf, "# %s\n\n", r.Name)
		fmt.Fprintf(&buf, "**Downloaded**: %d (%s)\n**Skipped**: %d\n**Failed**: %d\n\n",
			r.Delivered, humanize.Bytes(uint64(r.Bytes)), r.Skipped, r.Failed)
		buf.WriteString("| Track | Result |\n|---|---|\n")
		for _, res := range r.Tracks {
			status := res.Path
			switch {
			case res.Skipped():
				status = "skipped: " + res.Track.Error
			case !res.Delivered():
				status = fmt.Sprintf("failed: %v", res.Err)
			}
			fmt.Fprintf(&buf, "| %s | %s |\n", mdEscape(res.Label()), mdEscape(status))
		}

	default:
		return nil, unsupported(Markdown, v)
	}

	return buf.Bytes(), nil
}

func writeMarkdownIDs(buf *bytes.Buffer, ids []string) {
	if len(ids) == 0 {
		return
	}
	buf.WriteString("\n## Tracks\n\n")
	for i, id := range ids {
		fmt.Fprintf(buf, "%d. %s\n", i+1, id)
	}
}

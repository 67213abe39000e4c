// package formatter renders resolved records as plain text, Markdown, CSV or JSON
package formatter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/desertthunder/dzx/internal/shared"
)

// Format selects an output rendering.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts the format names and a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, s)
}

// Render writes v to w in the given format.
//
// Supported values are the resolver records, search results, credits,
// lyrics, covers, download run results and cached tracks.
func Render(w io.Writer, format Format, v any) error {
	if format == JSON {
		data, err := shared.MarshalJSON(v, true)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case Text:
		data, err = toText(v)
	case Markdown:
		data, err = toMarkdown(v)
	case CSV:
		data, err = toCSV(v)
	default:
		return fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func unsupported(format Format, v any) error {
	return fmt.Errorf("%w: cannot render %T as %s", shared.ErrInvalidArgument, v, format)
}

// WriteFile renders v into path.
func WriteFile(path string, format Format, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Render(f, format, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidInput)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

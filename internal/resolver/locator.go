package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
)

// ShortLinkHost serves shortened share links that redirect once to a catalog URL.
const ShortLinkHost = "dzr.page.link"

// NetLocations are host fragments that identify the catalog service.
var NetLocations = []string{"deezer", "dzr"}

var locatorPath = regexp.MustCompile(`^/(?:[a-z]{2}/)?(track|album|artist|playlist)/(\d+)/?$`)

// Locator parses catalog URLs into a [models.MediaIdentification].
type Locator struct {
	client        *http.Client
	shortLinkBase string
}

// NewLocator creates a [Locator]. client may be nil; redirects are never
// followed automatically.
func NewLocator(client *http.Client) *Locator {
	var c http.Client
	if client != nil {
		c = *client
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Locator{client: &c, shortLinkBase: "https://" + ShortLinkHost}
}

// WithShortLinkBase points short-link resolution at another origin.
func (l *Locator) WithShortLinkBase(base string) *Locator {
	l.shortLinkBase = strings.TrimSuffix(base, "/")
	return l
}

// Matches reports whether link looks like a catalog URL.
func Matches(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, loc := range NetLocations {
		if strings.Contains(host, loc) {
			return true
		}
	}
	return false
}

// Parse identifies the entity a link points at. Short links are followed for
// exactly one 302 hop.
func (l *Locator) Parse(ctx context.Context, link string) (models.MediaIdentification, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return models.MediaIdentification{}, fmt.Errorf("%w: %s", shared.ErrInvalidLocator, link)
	}

	if strings.EqualFold(u.Hostname(), ShortLinkHost) {
		if u, err = l.expand(ctx, u.Path); err != nil {
			return models.MediaIdentification{}, fmt.Errorf("%w: %s: %v", shared.ErrInvalidLocator, link, err)
		}
	}

	m := locatorPath.FindStringSubmatch(u.Path)
	if m == nil {
		return models.MediaIdentification{}, fmt.Errorf("%w: %s", shared.ErrInvalidLocator, link)
	}

	mediaType, err := models.ParseMediaType(m[1])
	if err != nil {
		return models.MediaIdentification{}, fmt.Errorf("%w: %s", shared.ErrInvalidLocator, link)
	}
	return models.MediaIdentification{Type: mediaType, ID: m[2]}, nil
}

func (l *Locator) expand(ctx context.Context, path string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.shortLinkBase+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("short link answered %d", resp.StatusCode)
	}
	return url.Parse(resp.Header.Get("Location"))
}

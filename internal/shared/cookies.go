// Utilities for pulling the session cookie out of a browser "Copy as cURL" command.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// SessionCookieName is the cookie holding the long-lived session token.
const SessionCookieName = "arl"

var (
	curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRegex = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
)

// ParseCurlFile reads a file containing a cURL command and extracts the session token.
func ParseCurlFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read curl file: %w", err)
	}
	return SessionTokenFromCurl(string(content))
}

// SessionTokenFromCurl finds the arl cookie in a cURL command, looking at
// -b/--cookie flags first and then at a Cookie header.
func SessionTokenFromCurl(curlCmd string) (string, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	var cookie string
	if m := curlCookieRegex.FindStringSubmatch(curlCmd); m != nil {
		cookie = firstNonEmpty(m[1], m[2])
	}

	if cookie == "" {
		for _, m := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
			line := firstNonEmpty(m[1], m[2])
			key, value, ok := strings.Cut(line, ":")
			if ok && strings.EqualFold(strings.TrimSpace(key), "cookie") {
				cookie = strings.TrimSpace(value)
				break
			}
		}
	}

	if cookie == "" {
		return "", fmt.Errorf("%w: no cookies found in curl command", ErrInvalidInput)
	}

	cookies, err := http.ParseCookie(cookie)
	if err != nil {
		return "", fmt.Errorf("%w: malformed cookie header: %v", ErrInvalidInput, err)
	}
	for _, c := range cookies {
		if c.Name == SessionCookieName && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("%w: no %s cookie in curl command", ErrMissingCredentials, SessionCookieName)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package services

import (
	"bufio"
	"bytes"
	"context"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/blowfish"
)

// Streams are encrypted in stripes: every third 2048-byte chunk is
// Blowfish-CBC encrypted with a fixed IV.
const stripeSize = 2048

var stripeIV = []byte{0, 1, 2, 3, 4, 5, 6, 7}

// TrackURL resolves the media URL for a track token. An expired token is
// refreshed through a fresh track fetch first.
func (s *DeezerService) TrackURL(ctx context.Context, id, token string, tokenExpiry int64, format models.FormatTag) (string, error) {
	if token == "" || tokenExpiry <= time.Now().Unix() {
		s.logger.Debug("refreshing track token", "id", id)
		track, err := s.TrackData(ctx, id)
		if err != nil {
			return "", err
		}
		token = track.TrackToken
	}

	s.mu.RLock()
	license := s.licenseToken
	s.mu.RUnlock()
	if license == "" {
		return "", fmt.Errorf("%w: no license token", shared.ErrNotAuthenticated)
	}

	payload, err := json.Marshal(map[string]any{
		"license_token": license,
		"media": []map[string]any{{
			"type":    "FULL",
			"formats": []map[string]string{{"cipher": "BF_CBC_STRIPE", "format": string(format)}},
		}},
		"track_tokens": []string{token},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Media+"/v1/get_url", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", err
	}

	entry := gjson.GetBytes(body, "data.0")
	if msg := entry.Get("errors.0.message"); msg.Exists() {
		return "", shared.Unavailable(msg.String())
	}
	src := entry.Get("media.0.sources.0.url").String()
	if src == "" {
		return "", shared.Unavailable(fmt.Sprintf("no %s stream for track %s", format, id))
	}
	return src, nil
}

// Download streams url into path, decrypting as it goes.
func (s *DeezerService) Download(ctx context.Context, id, url, path string) error {
	key, err := trackKey(id, s.bfSecret)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: download status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := decryptStream(f, resp.Body, key)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to download track %s: %w", id, err)
	}

	s.logger.Debug("downloaded track", "id", id, "bytes", n)
	return nil
}

// trackKey derives the per-track Blowfish key from the md5 of the id.
func trackKey(id, secret string) ([]byte, error) {
	if len(secret) != 16 {
		return nil, fmt.Errorf("%w: bf_secret must be 16 characters", shared.ErrInvalidConfig)
	}
	h := md5Hex(id)
	key := make([]byte, 16)
	for i := range key {
		key[i] = h[i] ^ h[i+16] ^ secret[i]
	}
	return key, nil
}

// decryptStream copies src to dst, decrypting every third full stripe.
func decryptStream(dst io.Writer, src io.Reader, key []byte) (int64, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return 0, fmt.Errorf("failed to create cipher: %w", err)
	}

	r := bufio.NewReaderSize(src, stripeSize*4)
	buf := make([]byte, stripeSize)
	var written int64
	for i := 0; ; i++ {
		n, err := io.ReadFull(r, buf)
		if n == 0 && (err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF)) {
			return written, nil
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return written, err
		}

		chunk := buf[:n]
		if i%3 == 0 && n == stripeSize {
			cipher.NewCBCDecrypter(block, stripeIV).CryptBlocks(chunk, chunk)
		}
		m, werr := dst.Write(chunk)
		written += int64(m)
		if werr != nil {
			return written, werr
		}
		if n < stripeSize {
			return written, nil
		}
	}
}

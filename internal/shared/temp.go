package shared

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempPath allocates a unique, not yet existing file path under dir (or the
// system temp dir when dir is empty). The caller owns whatever is written there.
func TempPath(dir string) (string, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "dzx")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return filepath.Join(dir, GenerateID()+".part"), nil
}

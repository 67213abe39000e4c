package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./dzx.db" {
			t.Errorf("expected database path ./dzx.db, got %s", config.Database.Path)
		}

		if config.Settings.Quality != "lossless" {
			t.Errorf("expected quality lossless, got %s", config.Settings.Quality)
		}

		if config.Cover.Resolution != 1400 {
			t.Errorf("expected cover resolution 1400, got %d", config.Cover.Resolution)
		}

		if config.Credentials.Deezer.ClientID != "447462" {
			t.Errorf("expected client_id 447462, got %s", config.Credentials.Deezer.ClientID)
		}

		if config.Storage.Backend != "sqlite" {
			t.Errorf("expected sqlite storage backend, got %s", config.Storage.Backend)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[credentials.deezer]
arl = "stored-arl"
email = "me@example.com"

[settings]
quality = "high"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0o644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Credentials.Deezer.ARL != "stored-arl" {
			t.Errorf("expected arl stored-arl, got %s", config.Credentials.Deezer.ARL)
		}
		if config.Settings.Quality != "high" {
			t.Errorf("expected quality high, got %s", config.Settings.Quality)
		}

		t.Run("Keeps Defaults For Missing Keys", func(t *testing.T) {
			if config.Credentials.Deezer.ClientID != "447462" {
				t.Errorf("expected default client_id, got %s", config.Credentials.Deezer.ClientID)
			}
			if config.Settings.SearchLimit != 10 {
				t.Errorf("expected default search limit 10, got %d", config.Settings.SearchLimit)
			}
		})
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[settings\nquality ="), 0o644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("DZX_EMAIL=env@example.com\n"), 0o644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("DZX_ARL", "env-arl")
		t.Setenv("DZX_EMAIL", "")
		os.Unsetenv("DZX_EMAIL")
		t.Cleanup(func() { os.Unsetenv("DZX_EMAIL") })

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Credentials.Deezer.ARL != "env-arl" {
			t.Errorf("expected arl from environment, got %q", config.Credentials.Deezer.ARL)
		}
		if config.Credentials.Deezer.Email != "env@example.com" {
			t.Errorf("expected email from .env file, got %q", config.Credentials.Deezer.Email)
		}
	})

	t.Run("ApplyEnv Missing File", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("missing env file should be ignored, got %v", err)
		}
	})
}

package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Settings    SettingsConfig    `toml:"settings"`
	Cover       CoverConfig       `toml:"cover"`
	Database    DatabaseConfig    `toml:"database"`
	Storage     StorageConfig     `toml:"storage"`
	Network     NetworkConfig     `toml:"network"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Deezer DeezerConfig `toml:"deezer"`
}

// DeezerConfig holds app identifiers and the user's credentials.
// Either Email and Password, or ARL, must be filled in for privileged lookups.
type DeezerConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	BFSecret     string `toml:"bf_secret"`
	Email        string `toml:"email"`
	Password     string `toml:"password"`
	ARL          string `toml:"arl"`
}

// SettingsConfig contains resolution defaults.
type SettingsConfig struct {
	Quality                  string `toml:"quality"`
	DisableSubscriptionCheck bool   `toml:"disable_subscription_check"`
	SearchLimit              int    `toml:"search_limit"`
	DownloadDir              string `toml:"download_dir"`
}

// CoverConfig is the default cover spec.
type CoverConfig struct {
	FileType    string `toml:"file_type"`
	Resolution  int    `toml:"resolution"`
	Compression string `toml:"compression"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// StorageConfig selects where the session token is persisted.
type StorageConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// NetworkConfig tunes the outbound HTTP client.
type NetworkConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// overrides credentials and quality from DZX_* variables.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	overrides := []struct {
		key    string
		target *string
	}{
		{"DZX_ARL", &c.Credentials.Deezer.ARL},
		{"DZX_EMAIL", &c.Credentials.Deezer.Email},
		{"DZX_PASSWORD", &c.Credentials.Deezer.Password},
		{"DZX_QUALITY", &c.Settings.Quality},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.target = v
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/dzx/internal/services"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	configPath := shared.OrString(os.Getenv("DZX_CONFIG"), "config.toml")
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	if err := config.ApplyEnv(".env"); err != nil {
		logger.Warn("failed to apply environment overrides", "error", err)
	}

	httpClient := &http.Client{Timeout: time.Duration(config.Network.TimeoutSeconds) * time.Second}

	var remote services.Remote
	deezer := config.Credentials.Deezer
	if svc, err := services.NewDeezerService(services.DeezerConfig{
		ClientID:          deezer.ClientID,
		ClientSecret:      deezer.ClientSecret,
		BFSecret:          deezer.BFSecret,
		HTTPClient:        httpClient,
		RequestsPerSecond: config.Network.RequestsPerSecond,
		Burst:             config.Network.Burst,
		Logger:            logger,
	}); err == nil {
		remote = svc
	} else {
		logger.Warn("catalog client unavailable", "error", err)
	}

	store := openStorage(ctx, config, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Remote:     remote,
		Store:      store.tokens,
		Tracks:     store.tracks,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "dzx",
		Usage:    "Resolve catalog metadata and download tracks, albums, playlists and discographies",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	err := app.Run(ctx, os.Args)
	store.Close(logger)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case shared.IsCredentialError(err):
			logger.Error("login required", "error", err)
			os.Exit(2)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/repositories"
	"github.com/desertthunder/dzx/internal/session"
	"github.com/desertthunder/dzx/internal/shared"
)

// storage is what openStorage managed to open. Either field may be nil.
type storage struct {
	tokens  session.TokenStore
	tracks  *repositories.TrackRepository
	closers []func() error
}

func (s *storage) Close(logger *log.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}
}

// openStorage opens the SQLite database (migrating it) and the configured
// token store. Failures degrade to running without persistence.
func openStorage(ctx context.Context, config *shared.Config, logger *log.Logger) *storage {
	s := &storage{}

	var settings *repositories.SettingsRepository
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("database unavailable, caching disabled", "path", config.Database.Path, "error", err)
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		s.closers = append(s.closers, db.Close)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("failed to migrate database, caching disabled", "error", err)
		} else {
			s.tracks = repositories.NewTrackRepository(db)
			settings = repositories.NewSettingsRepository(db)
		}
	}

	switch backend := strings.ToLower(strings.TrimSpace(config.Storage.Backend)); backend {
	case "redis":
		client, err := repositories.ConnectRedis(ctx, config.Storage)
		if err != nil {
			logger.Warn("redis unavailable, storing the session token in sqlite", "addr", config.Storage.RedisAddr, "error", err)
			break
		}
		s.closers = append(s.closers, client.Close)
		s.tokens = repositories.NewRedisTokenStore(client, "")
		return s
	case "", "sqlite":
	default:
		logger.Warn("unknown storage backend, using sqlite", "backend", backend)
	}

	if settings != nil {
		s.tokens = settings
	}
	return s
}

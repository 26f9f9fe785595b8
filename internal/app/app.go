// Package app implements the portal's application core: catalog
// ingestion and search, attendance punches, and the surrounding
// portal workflows.
package app

import (
	"fmt"
	"time"

	"officedesk/internal/events"
	"officedesk/internal/session"
	"officedesk/internal/storage"
	"officedesk/internal/store"
)

// Config holds runtime configuration for the application core.
type Config struct {
	DatabaseURL string
	Store       store.Store

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	Sessions      session.Store

	// Optional raw-upload archival; nil disables it.
	Objects storage.ObjectStore
	// Optional activity event publishing; nil means no-op.
	Events events.Publisher
}

// App wires the store, sessions and side-channels together.
type App struct {
	store    store.Store
	sessions session.Store
	objects  storage.ObjectStore
	events   events.Publisher

	now func() time.Time
}

// New constructs the application with database-backed persistence.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	sessions := cfg.Sessions
	if sessions == nil {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis addr required")
		}
		sessions = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
	}
	publisher := cfg.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &App{
		store:    dataStore,
		sessions: sessions,
		objects:  cfg.Objects,
		events:   publisher,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

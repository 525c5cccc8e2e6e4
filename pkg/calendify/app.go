package calendify

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sarveshmina/calendify/pkg/notify"
	"github.com/sarveshmina/calendify/pkg/store"
	"github.com/sarveshmina/calendify/pkg/store/memory"
	surrealstore "github.com/sarveshmina/calendify/pkg/store/surrealdb"
)

// Config holds application configuration, populated by [Parse] from flags and
// environment variables.
type Config struct {
	// Server configuration
	ServerPort string

	// Store configuration. MemoryStore selects the in-memory store instead of
	// SurrealDB; meant for development and tests only, data is lost on exit.
	MemoryStore   bool
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// JWTSecret signs and verifies session tokens (HS256). The server refuses
	// to start without one.
	JWTSecret string

	// SMTP configuration. When SMTPHost is empty, notifications are discarded.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// App holds the application state: the store, the notifier, and the
// per-calendar locks that serialize availability scans against commits within
// this process.
type App struct {
	config   *Config
	store    store.Store
	notifier notify.Notifier
	logger   zerolog.Logger
	calLocks *keyedMutex
}

// New creates the application from config, connecting to the configured store
// and wiring the notifier.
func New(config *Config) (*App, error) {
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required (set CALENDIFY_JWT_SECRET)")
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "calendify").Logger()

	var appStore store.Store
	if config.MemoryStore {
		appStore = memory.New()
		logger.Info().Msg("using in-memory store")
	} else {
		s, err := surrealstore.New(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		appStore = s
		logger.Info().Str("url", config.SurrealDBURL).Msg("connected to SurrealDB")
	}

	var notifier notify.Notifier
	if config.SMTPHost != "" {
		notifier = notify.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPass, config.SMTPFrom)
		logger.Info().Str("host", config.SMTPHost).Msg("email notifications enabled")
	} else {
		notifier = notify.Noop{}
		logger.Info().Msg("email notifications disabled (no SMTP host)")
	}

	return &App{
		config:   config,
		store:    appStore,
		notifier: notifier,
		logger:   logger,
		calLocks: newKeyedMutex(),
	}, nil
}

// NewWith builds an App over explicit store and notifier instances. Tests use
// this to inject the memory store and a recording notifier.
func NewWith(config *Config, s store.Store, n notify.Notifier) *App {
	return &App{
		config:   config,
		store:    s,
		notifier: n,
		logger:   zerolog.Nop(),
		calLocks: newKeyedMutex(),
	}
}

// Close releases the store connection.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Store returns the underlying store (useful for tests).
func (a *App) Store() store.Store {
	return a.store
}

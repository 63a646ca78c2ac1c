// Package daemon wires the database, stores and web service together.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	sessionsqlite "github.com/gofiber/storage/sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/directory"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/mailer"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/secrets"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("failed to open database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	box := newSettingsBox(cfg)

	requests, err := request.New(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create request store")
		return nil
	}

	users, err := user.New(db, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create user store")
		return nil
	}

	settings, err := setting.New(db, box)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create setting store")
		return nil
	}

	if err = users.Bootstrap(); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap users")
		return nil
	}

	if err = settings.BootstrapDefaults(); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap settings")
		return nil
	}

	// Sessions live in their own sqlite file with their own driver, so
	// the session backend never shares the gorm connection.
	sessionStorage := sessionsqlite.New(sessionsqlite.Config{
		Database: cfg.DB.SessionPath,
		Table:    "sessions",
	})

	session.Init(sessionStorage)

	m, err := mailer.New(settings, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mailer")
		return nil
	}

	stores := web.Stores{
		Requests: requests,
		Users:    users,
		Settings: settings,
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, stores, directory.New(cfg), m),
	}
}

// newSettingsBox builds the encryption box for sensitive settings. The
// key is required outside dev mode; in dev mode a missing key gets an
// ephemeral one, which makes stored secrets unreadable after restart.
func newSettingsBox(cfg *config.Config) *secrets.Box {
	keyHex := cfg.Secrets.SettingsKey

	if keyHex == "" && cfg.DevMode {
		generated, err := secrets.GenerateKey()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate settings key")
			return nil
		}

		log.Warn().Msg("dev mode: no settings key configured, using an ephemeral one")

		keyHex = generated
	}

	key, err := secrets.ParseKey(keyHex)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings key")
		return nil
	}

	box, err := secrets.NewBox(key)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create settings box")
		return nil
	}

	return box
}

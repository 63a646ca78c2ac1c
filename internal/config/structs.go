package config

import (
	"time"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Secrets   Secrets
	Directory Directory
	SMTP      SMTP
	Bootstrap Bootstrap
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

// Secrets holds the key material for settings-at-rest encryption.
type Secrets struct {
	// SettingsKey is the hex-encoded 256-bit key used to encrypt
	// sensitive setting values. Required outside dev mode.
	SettingsKey string
}

// Directory holds the external department directory API settings.
type Directory struct {
	BaseURL string
	Timeout time.Duration
}

// SMTP holds the compiled-in notification transport defaults. Values
// stored in the settings table take precedence at send time.
type SMTP struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// Bootstrap holds the passwords for the seed accounts. When a password
// is left empty, a random one is generated at first seeding and logged.
type Bootstrap struct {
	AdminPassword string
	StaffPassword string
}

package config

// DB holds the database configuration settings.
type DB struct {
	// Path is the sqlite database file, ":memory:" for ephemeral runs.
	Path string
	// SessionPath is the sqlite file backing the web session store. It is
	// kept separate from Path so the session storage driver never shares a
	// file with gorm.
	SessionPath string
}

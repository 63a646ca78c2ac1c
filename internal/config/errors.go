package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSettingsKeyRequired error if secrets.settingskey is missing outside dev mode.
	ErrSettingsKeyRequired = errors.New("toml config secrets.settingskey is required outside dev mode")
)

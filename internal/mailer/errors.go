package mailer

import "github.com/pkg/errors"

var (
	// ErrSettingsNil is returned when the settings store is missing.
	ErrSettingsNil = errors.New("settings store is nil")

	// ErrConfigNil is returned when the configuration is missing.
	ErrConfigNil = errors.New("config is nil")

	// ErrNotConfigured is returned when no usable SMTP transport is
	// configured. Notification delivery is skipped in that case.
	ErrNotConfigured = errors.New("smtp transport is not configured")
)

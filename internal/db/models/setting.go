package models

import "time"

// Setting represents a configuration setting stored in the database.
// For sensitive keys the Value column holds ciphertext, never plaintext.
type Setting struct {
	ID          uint64 `gorm:"primaryKey"`
	Key         string `gorm:"unique;size:100;not null"`
	Value       string `gorm:"size:4096"`
	Description string `gorm:"size:255"`
	UpdatedAt   time.Time
}

// Package models contains database model definitions.
package models

import "time"

// Known request lifecycle states. The store does not enforce this set;
// any status string an admin supplies is persisted as-is.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Categories is the fixed set of selectable request categories.
var Categories = []string{
	"Hardware Issue",
	"Software Issue",
	"Network Problem",
	"Access Request",
	"Other",
}

// Request represents a service request (helpdesk ticket) submitted by
// staff. Requests are never deleted; only the status field mutates after
// creation.
type Request struct {
	// ID is the unique identifier, assigned on creation.
	ID uint64 `gorm:"primaryKey"`
	// RequesterName is the submitting person's name.
	RequesterName string `gorm:"size:255;not null"`
	// Department is drawn from the directory lookup or the fallback list,
	// but not validated against either.
	Department string `gorm:"size:255;not null"`
	// Category is one of the fixed Categories entries.
	Category string `gorm:"size:100;not null"`
	// Description is the free-form problem description.
	Description string `gorm:"not null"`
	// Status is the current lifecycle state, "Pending" on creation.
	Status string `gorm:"size:100;not null;default:'Pending'"`
	// CreatedAt is set at insertion and never changes.
	CreatedAt time.Time
}

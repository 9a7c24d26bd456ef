package models

import "time"

// Contact is the sole persisted entity: one row in the contacts table.
// ID and CreatedAt are assigned by the store on creation and never change.
type Contact struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string
	Phone     string // stored normalized: digits plus optional leading '+'
	Company   string
	Tags      string
	Notes     string
	CreatedAt time.Time
}

// ContactFields is the mutable field set submitted by callers on add and
// update. Validation and normalization happen inside the store.
type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Tags    string
	Notes   string
}

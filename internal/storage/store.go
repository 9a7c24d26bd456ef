package storage

import "simplecrm/internal/models"

// Store defines the interface for contact persistence operations.
// This allows for easy testing with mock implementations and keeps the
// presentation shell free of database concerns.
type Store interface {
	// List returns the full current snapshot, newest first. A non-empty
	// filter keeps only contacts where it appears as a substring in any
	// of name, email, phone, company or tags.
	List(filter string) ([]models.Contact, error)

	// Add validates and normalizes fields, inserts a new contact and
	// returns its assigned id. A ValidationError means nothing was written.
	Add(fields models.ContactFields) (uint, error)

	// Update replaces all mutable fields of the contact identified by id,
	// running the same validation pipeline as Add. Updating a missing id
	// is a no-op, not an error.
	Update(id uint, fields models.ContactFields) error

	// Delete removes one contact. Deleting a missing id is a no-op.
	Delete(id uint) error

	// DeleteMany removes every contact whose id is in ids and returns the
	// number of rows actually removed, which may be less than len(ids).
	// Deletion is irreversible; interactive callers should confirm first.
	DeleteMany(ids []uint) (int64, error)

	// ExportCSV writes every contact to a CSV file at path and returns the
	// number of rows written.
	ExportCSV(path string) (int, error)

	// ImportCSV inserts contacts from a CSV file at path and returns the
	// number of rows added. Rows already inserted stay committed when a
	// later row fails validation.
	ImportCSV(path string) (int, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)

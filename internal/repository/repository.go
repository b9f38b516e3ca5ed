// Package repository stores records for the reference backend.
package repository

import (
	"context"
	"errors"

	"github.com/dbsmedya/recordsdesk/internal/record"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Repository is the storage behind the /records endpoints.
type Repository interface {
	// List returns every record ordered by id.
	List(ctx context.Context) ([]record.Record, error)
	// Create stores d under a new id and returns the stored record.
	Create(ctx context.Context, d record.Draft) (record.Record, error)
	// Update changes the fields present in p on record id.
	Update(ctx context.Context, id int64, p record.Patch) (record.Record, error)
	// Delete removes record id.
	Delete(ctx context.Context, id int64) error
}

// Package store defines the record store adapter: the console's only way to
// read and write section records. The backend that owns persistence is opaque;
// everything here is a REST client contract.
package store

import (
	"context"

	"instituteweb/admin-console/internal/record"
)

type Store interface {
	// List fetches every record of a section.
	List(ctx context.Context, section string) ([]record.Record, error)

	// Create persists a new record and returns the authoritative copy.
	Create(ctx context.Context, section string, fields map[string]any) (record.Record, error)

	// Update replaces an existing record's fields and returns the
	// authoritative copy.
	Update(ctx context.Context, section string, id string, fields map[string]any) (record.Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, section string, id string) error
}

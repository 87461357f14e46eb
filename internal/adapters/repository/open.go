package repository

import (
	"context"
	"fmt"
)

// Store drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Options selects and seeds a store.
type Options struct {
	Driver string
	// CatalogPath, if set, is loaded into the store on open.
	CatalogPath string
	// DSN is the database location for the sqlite driver.
	DSN string
}

// Open creates the store selected by opts.Driver and seeds it from the
// catalog when one is configured.
func Open(ctx context.Context, opts Options) (Store, error) {
	var catalog Catalog
	if opts.CatalogPath != "" {
		var err error
		if catalog, err = LoadCatalog(opts.CatalogPath); err != nil {
			return nil, err
		}
	}

	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(catalog), nil
	case DriverSQLite:
		s, err := OpenSQLite(opts.DSN)
		if err != nil {
			return nil, err
		}
		if opts.CatalogPath != "" {
			if err := s.Import(ctx, catalog); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

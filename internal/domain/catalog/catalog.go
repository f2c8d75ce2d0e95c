// Package catalog holds the authoritative list of known certifications and
// the sources it can be loaded from.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/certcredit/internal/domain/model"
)

// Source supplies catalog records in catalog order.
type Source interface {
	Entries(ctx context.Context) ([]model.CatalogEntry, error)
}

// Catalog is an immutable, ordered set of entries. It is safe for concurrent
// reads.
type Catalog struct {
	entries []model.CatalogEntry
}

// New builds a catalog from a copy of entries.
func New(entries []model.CatalogEntry) *Catalog {
	c := &Catalog{entries: make([]model.CatalogEntry, len(entries))}
	copy(c.entries, entries)
	return c
}

// Load reads all records from src. Any failure, including a record with a
// blank name, is reported as ErrCatalogUnavailable.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrCatalogUnavailable)
	}
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: record %d has an empty certificate_name", ErrCatalogUnavailable, i)
		}
	}
	return New(entries), nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the i-th entry in catalog order.
func (c *Catalog) At(i int) model.CatalogEntry {
	return c.entries[i]
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []model.CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]model.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SliceSource serves records held in memory.
type SliceSource []model.CatalogEntry

// Entries implements Source.
func (s SliceSource) Entries(_ context.Context) ([]model.CatalogEntry, error) {
	out := make([]model.CatalogEntry, len(s))
	copy(out, s)
	return out, nil
}

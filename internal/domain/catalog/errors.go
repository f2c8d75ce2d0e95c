package catalog

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrCatalogUnavailable means the catalog source is missing or malformed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

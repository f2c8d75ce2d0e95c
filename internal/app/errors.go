package service

import (
	"errors"
	"fmt"

	"github.com/okian/certcredit/internal/domain/catalog"
)

// Sentinel errors returned by the service.
var (
	// ErrNoCatalog is returned while no catalog is loaded. It matches
	// catalog.ErrCatalogUnavailable under errors.Is.
	ErrNoCatalog = fmt.Errorf("%w: no catalog loaded", catalog.ErrCatalogUnavailable)

	// ErrNoBadgeExtractor is returned by badge operations when no extractor is configured.
	ErrNoBadgeExtractor = errors.New("no badge extractor configured")
)

package service

import (
	"context"
	"time"

	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/pkg/logger"
)

// BadgeExtractor fetches one badge page.
type BadgeExtractor interface {
	Extract(ctx context.Context, url string) (model.Badge, error)
}

// BadgeCache stores extracted badges by URL.
type BadgeCache interface {
	Get(ctx context.Context, url string) (model.Badge, bool)
	Put(ctx context.Context, b model.Badge)
	Len() int
	Stats() (hits, misses int64)
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalogSource sets where the catalog is loaded from.
func WithCatalogSource(src catalog.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithBadgeExtractor enables badge aggregation.
func WithBadgeExtractor(e BadgeExtractor) Option {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithBadgeCache caches extracted badges by URL.
func WithBadgeCache(c BadgeCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithClock overrides the source of "now" used when a caller gives none.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithFetchConcurrency caps parallel badge fetches per call.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

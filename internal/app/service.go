// Package service wires the certification engine to its catalog source,
// badge extractor and cache, and exposes the operations the API and CLI use.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/certcredit/internal/domain/aggregate"
	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/expiry"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/points"
	"github.com/okian/certcredit/internal/domain/scoring"
	"github.com/okian/certcredit/pkg/logger"
	"github.com/okian/certcredit/pkg/metrics"
)

const defaultFetchConcurrency = 4

// BadgeFailure reports a badge URL that could not be used.
type BadgeFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BadgeReport is the outcome of aggregating badges by URL. Badges and the
// aggregate items follow the input URL order, skipping failures.
type BadgeReport struct {
	Result   model.AggregateResult `json:"result"`
	Badges   []model.Badge         `json:"badges"`
	Failures []BadgeFailure        `json:"failures,omitempty"`
}

// Service implements the operations behind the HTTP API and CLI.
type Service struct {
	mu sync.RWMutex

	source    catalog.Source
	extractor BadgeExtractor
	cache     BadgeCache
	clock     func() time.Time

	fetchConcurrency int

	// cat is nil while no catalog is loaded. Readers never lock.
	cat      atomic.Pointer[catalog.Catalog]
	loadedAt time.Time
	loadErr  error
	started  bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:            time.Now,
		fetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Start loads the catalog. A load failure is returned and the service stays stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting certification service...")
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	s.started = true
	s.logger.Info(ctx, "certification service started",
		logger.Int("catalogEntries", s.cat.Load().Len()),
		logger.Int("fetchConcurrency", s.fetchConcurrency),
		logger.Bool("badges", s.extractor != nil),
	)
	return nil
}

// Stop marks the service stopped. The loaded catalog is kept for in-flight readers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "certification service stopped")
}

// Reload replaces the catalog wholesale. On failure the catalog becomes
// unavailable until a later reload succeeds.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	start := time.Now()
	cat, err := catalog.Load(ctx, s.source)
	if err != nil {
		s.cat.Store(nil)
		s.loadErr = err
		metrics.RecordCatalogLoad(metrics.StatusError, 0, time.Time{})
		s.logger.Error(ctx, "catalog load failed", logger.Error(err))
		return err
	}
	s.cat.Store(cat)
	s.loadErr = nil
	s.loadedAt = start
	metrics.RecordCatalogLoad(metrics.StatusOK, cat.Len(), start)
	s.logger.Info(ctx, "catalog loaded",
		logger.Int("entries", cat.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) current() (*catalog.Catalog, error) {
	cat := s.cat.Load()
	if cat == nil {
		return nil, ErrNoCatalog
	}
	return cat, nil
}

// Catalog returns the loaded entries in catalog order.
func (s *Service) Catalog(_ context.Context) ([]model.CatalogEntry, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return cat.Entries(), nil
}

// Match resolves name against the catalog. A blank name is not an error; it
// simply does not match.
func (s *Service) Match(ctx context.Context, name string) (model.MatchResult, error) {
	cat, err := s.current()
	if err != nil {
		return model.MatchResult{}, err
	}
	res := scoring.Match(name, cat)
	s.recordMatch(ctx, name, res)
	return res, nil
}

// ResolvePoints returns catalog points for name, or a keyword estimate.
func (s *Service) ResolvePoints(ctx context.Context, name string) (points.Result, error) {
	cat, err := s.current()
	if err != nil {
		return points.Result{}, err
	}
	res := points.Resolve(name, cat)
	s.recordMatch(ctx, name, res.Match)
	metrics.RecordPointsSource(string(res.Source))
	return res, nil
}

// CheckValidity evaluates expiryText against now. It needs no catalog.
func (s *Service) CheckValidity(ctx context.Context, expiryText string, now time.Time) model.ValidityVerdict {
	v := expiry.Evaluate(expiryText, now)
	s.recordVerdict(ctx, expiryText, v)
	return v
}

// Aggregate totals points across items as of now.
func (s *Service) Aggregate(ctx context.Context, items []model.Item, now time.Time) (model.AggregateResult, error) {
	cat, err := s.current()
	if err != nil {
		return model.AggregateResult{}, err
	}
	start := time.Now()
	res := aggregate.Aggregate(items, cat, now)
	for i, r := range res.Items {
		s.recordMatch(ctx, r.Name, r.Match)
		metrics.RecordPointsSource(string(r.Source))
		s.recordVerdict(ctx, items[i].ExpiryText, r.Verdict)
	}
	metrics.RecordAggregation(len(items), res.TotalPoints, time.Since(start))
	s.logger.Debug(ctx, "aggregated certifications",
		logger.Int("items", len(items)),
		logger.Float64("total", res.TotalPoints),
	)
	return res, nil
}

// AggregateBadges fetches every URL (cache first), then aggregates the
// badges that could be read. Unreadable URLs are reported, not fatal.
func (s *Service) AggregateBadges(ctx context.Context, urls []string, now time.Time) (BadgeReport, error) {
	if s.extractor == nil {
		return BadgeReport{}, ErrNoBadgeExtractor
	}
	if _, err := s.current(); err != nil {
		return BadgeReport{}, err
	}

	badges := make([]model.Badge, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	g.SetLimit(s.fetchConcurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			badges[i], errs[i] = s.fetchBadge(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return BadgeReport{}, err
	}

	report := BadgeReport{Badges: make([]model.Badge, 0, len(urls))}
	items := make([]model.Item, 0, len(urls))
	for i, u := range urls {
		if errs[i] != nil {
			report.Failures = append(report.Failures, BadgeFailure{URL: u, Error: errs[i].Error()})
			continue
		}
		report.Badges = append(report.Badges, badges[i])
		items = append(items, badges[i].Item())
	}

	res, err := s.Aggregate(ctx, items, now)
	if err != nil {
		return BadgeReport{}, err
	}
	report.Result = res
	return report, nil
}

func (s *Service) fetchBadge(ctx context.Context, url string) (model.Badge, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Badge{}, errors.New("empty badge url")
	}
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, url); ok {
			metrics.RecordBadgeCache(true)
			return b, nil
		}
		metrics.RecordBadgeCache(false)
	}

	start := time.Now()
	b, err := s.extractor.Extract(ctx, url)
	if err != nil {
		metrics.RecordBadgeFetch(metrics.StatusError, time.Since(start))
		s.logger.Warn(ctx, "badge fetch failed", logger.String("url", url), logger.Error(err))
		return model.Badge{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	metrics.RecordBadgeFetch(metrics.StatusOK, time.Since(start))
	if s.cache != nil {
		s.cache.Put(ctx, b)
	}
	return b, nil
}

func (s *Service) recordMatch(ctx context.Context, name string, res model.MatchResult) {
	if err := scoring.Validate(name); err != nil {
		metrics.RecordMatch(metrics.OutcomeInvalid, 0)
		s.logger.Debug(ctx, "blank certification name", logger.Error(err))
		return
	}
	outcome := metrics.OutcomeUnmatched
	if res.Matched {
		outcome = metrics.OutcomeMatched
	}
	metrics.RecordMatch(outcome, res.Score)
}

func (s *Service) recordVerdict(ctx context.Context, text string, v model.ValidityVerdict) {
	metrics.RecordVerdict(string(v.State))
	if v.State == model.StateIndeterminate {
		s.logger.Warn(ctx, "expiry text has no usable date",
			logger.String("text", text),
			logger.Error(expiry.ErrUnparseableExpiry),
		)
	}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat := s.cat.Load()
	stats := map[string]interface{}{
		"started":          s.started,
		"catalogLoaded":    cat != nil,
		"catalogEntries":   cat.Len(),
		"fetchConcurrency": s.fetchConcurrency,
		"badgesEnabled":    s.extractor != nil,
	}
	if !s.loadedAt.IsZero() {
		stats["catalogLoadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	if s.loadErr != nil {
		stats["catalogError"] = s.loadErr.Error()
	}
	if s.cache != nil {
		hits, misses := s.cache.Stats()
		stats["badgeCacheSize"] = s.cache.Len()
		stats["badgeCacheHits"] = hits
		stats["badgeCacheMisses"] = misses
	}
	return stats
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	service "github.com/okian/certcredit/internal/app"
	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/points"
	"github.com/okian/certcredit/internal/domain/types"
	"github.com/okian/certcredit/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Catalog(ctx context.Context) ([]model.CatalogEntry, error)
	Reload(ctx context.Context) error

	Match(ctx context.Context, name string) (model.MatchResult, error)
	ResolvePoints(ctx context.Context, name string) (points.Result, error)
	CheckValidity(ctx context.Context, expiryText string, now time.Time) model.ValidityVerdict
	Aggregate(ctx context.Context, items []model.Item, now time.Time) (model.AggregateResult, error)
	AggregateBadges(ctx context.Context, urls []string, now time.Time) (service.BadgeReport, error)

	// Now is used when a request carries no as_of date.
	Now() time.Time
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	catalogHandler   *CatalogHandler
	resolveHandler   *ResolveHandler
	aggregateHandler *AggregateHandler
	logger           logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for request-scoped errors.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.catalogHandler = NewCatalogHandler(deps, s.logger)
	s.resolveHandler = NewResolveHandler(deps, s.logger)
	s.aggregateHandler = NewAggregateHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/catalog", "catalog", s.catalogHandler.HandleGetCatalog)
	route("/catalog/reload", "catalog_reload", s.catalogHandler.HandleReload)
	route("/match", "match", s.resolveHandler.HandleMatch)
	route("/points", "points", s.resolveHandler.HandlePoints)
	route("/validity", "validity", s.resolveHandler.HandleValidity)
	route("/aggregate", "aggregate", s.aggregateHandler.HandleAggregate)
	route("/badges/aggregate", "badges_aggregate", s.aggregateHandler.HandleAggregateBadges)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

// writeServiceError maps service failures onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "catalog_unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, service.ErrNoBadgeExtractor):
		writeError(w, r, http.StatusNotImplemented, "not_enabled", WrapKind(op, ErrNotImplemented, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "timeout", WrapKind(op, ErrInternal, err))
	default:
		l.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}

// decode reads a JSON body into v, rejecting oversized or malformed input.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// writeDecodeError answers 413 for a body over maxBodyBytes and 400 otherwise.
func writeDecodeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrTooLarge, err))
		return
	}
	writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}

func allowMethod(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	return false
}

// asOf returns the request's reference date, falling back to the service clock.
func asOf(d *types.Date, deps Dependencies) time.Time {
	if d != nil {
		return d.Time
	}
	return deps.Now()
}

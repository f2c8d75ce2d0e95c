package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/types"
	"github.com/okian/certcredit/pkg/logger"
)

const maxBadgeURLs = 50

// AggregateHandler serves subject-level totals.
type AggregateHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewAggregateHandler creates a new aggregate handler.
func NewAggregateHandler(deps Dependencies, l logger.Logger) *AggregateHandler {
	return &AggregateHandler{deps: deps, logger: l}
}

type aggregateRequest struct {
	Items []model.Item `json:"items"`
	AsOf  *types.Date  `json:"as_of,omitempty"`
}

type badgesRequest struct {
	URLs []string    `json:"urls"`
	AsOf *types.Date `json:"as_of,omitempty"`
}

// HandleAggregate handles POST /aggregate. Blank item names are passed
// through and resolve to an estimate.
func (h *AggregateHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	const op = "api.aggregate"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req aggregateRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, r, op, err)
		return
	}
	res, err := h.deps.Aggregate(r.Context(), req.Items, asOf(req.AsOf, h.deps))
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleAggregateBadges handles POST /badges/aggregate.
func (h *AggregateHandler) HandleAggregateBadges(w http.ResponseWriter, r *http.Request) {
	const op = "api.aggregate_badges"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req badgesRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, r, op, err)
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing urls")))
		return
	}
	if len(req.URLs) > maxBadgeURLs {
		writeError(w, r, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("at most %d urls per request", maxBadgeURLs)))
		return
	}
	report, err := h.deps.AggregateBadges(r.Context(), req.URLs, asOf(req.AsOf, h.deps))
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

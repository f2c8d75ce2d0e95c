package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/certcredit/internal/domain/types"
	"github.com/okian/certcredit/pkg/logger"
)

// ResolveHandler serves single-certification lookups.
type ResolveHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps Dependencies, l logger.Logger) *ResolveHandler {
	return &ResolveHandler{deps: deps, logger: l}
}

type nameRequest struct {
	Name string `json:"name"`
}

type validityRequest struct {
	ExpiryText string      `json:"expiry_text"`
	AsOf       *types.Date `json:"as_of,omitempty"`
}

// HandleMatch handles POST /match.
func (h *ResolveHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	name, ok := h.readName(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.Match(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePoints handles POST /points.
func (h *ResolveHandler) HandlePoints(w http.ResponseWriter, r *http.Request) {
	const op = "api.points"
	name, ok := h.readName(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.ResolvePoints(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleValidity handles POST /validity. An empty expiry_text is valid input.
func (h *ResolveHandler) HandleValidity(w http.ResponseWriter, r *http.Request) {
	const op = "api.validity"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req validityRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CheckValidity(r.Context(), req.ExpiryText, asOf(req.AsOf, h.deps)))
}

func (h *ResolveHandler) readName(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	if !allowMethod(w, r, op, http.MethodPost) {
		return "", false
	}
	var req nameRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, r, op, err)
		return "", false
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return "", false
	}
	return req.Name, true
}

package api

import (
	"context"
	"net/http"

	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/pkg/logger"
)

// CatalogDependencies is the slice of the service the catalog routes need.
type CatalogDependencies interface {
	Catalog(ctx context.Context) ([]model.CatalogEntry, error)
	Reload(ctx context.Context) error
}

// CatalogHandler serves and reloads the catalog.
type CatalogHandler struct {
	deps   CatalogDependencies
	logger logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies, l logger.Logger) *CatalogHandler {
	return &CatalogHandler{deps: deps, logger: l}
}

type catalogResponse struct {
	Count   int                  `json:"count"`
	Entries []model.CatalogEntry `json:"entries"`
}

// HandleGetCatalog handles GET /catalog.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_catalog"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}
	entries, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Count: len(entries), Entries: entries})
}

// HandleReload handles POST /catalog/reload.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload_catalog"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	entries, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Count: len(entries), Entries: entries})
}

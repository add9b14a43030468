package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lookbook/internal/catalog"
	"lookbook/internal/transport/http/shared"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// CatalogService is the catalog surface consumed by the transport layer.
type CatalogService interface {
	List(ctx context.Context) ([]*catalog.Product, error)
	Get(ctx context.Context, id domain.ProductID) (*catalog.Product, error)
	Recommendations(ctx context.Context, limit int) ([]*catalog.Product, error)
}

const defaultRecommendationLimit = 10

// HandleListProducts implements GET /v1/products: the home feed, shuffled per
// fetch.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "product list failed", "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

// HandleGetProduct implements GET /v1/products/{product_id}.
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseProductID(chi.URLParam(r, "product_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid product ID"))
		return
	}
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, product)
}

// HandleRecommendations implements GET /v1/recommendations. The ordering is
// stable for the calendar day and rotates at midnight.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecommendationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	products, err := h.catalog.Recommendations(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

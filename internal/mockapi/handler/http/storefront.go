package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/mockapi/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/validator"
)

// StorefrontHandler handles HTTP requests for the catalog and basket
// endpoints.
type StorefrontHandler struct {
	catalog *service.CatalogService
	basket  *service.BasketService
	perPage int
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler. perPage is the
// catalog page size used when the request does not set per_page.
func NewStorefrontHandler(catalog *service.CatalogService, basket *service.BasketService, perPage int, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalog,
		basket:  basket,
		perPage: perPage,
		logger:  logger,
	}
}

// --- Request/response DTOs ---

// PayRequest is the JSON request body for paying the basket.
type PayRequest struct {
	Card string `json:"card" validate:"required,payment_card"`
}

// MutationResponse acknowledges a basket mutation.
type MutationResponse struct {
	Result    int    `json:"result"`
	PaymentID string `json:"payment_id,omitempty"`
}

var acknowledged = MutationResponse{Result: 1}

// --- Handlers ---

// ListCatalog handles GET /api/v1/catalog
func (h *StorefrontHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, h.perPage)

	var category *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid category: " + raw},
			})
			return
		}
		category = &id
	}

	httputil.WriteData(w, h.catalog.Page(r.Context(), params, category))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, product)
}

// GetBasket handles GET /api/v1/basket
func (h *StorefrontHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	b, err := h.basket.GetBasket(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, b.Lines)
}

// AddItem handles POST /api/v1/basket/items/{id}
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if _, err := h.basket.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, acknowledged)
}

// RemoveItem handles DELETE /api/v1/basket/items/{id}
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if _, err := h.basket.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, acknowledged)
}

// ClearBasket handles DELETE /api/v1/basket
func (h *StorefrontHandler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	if err := h.basket.Clear(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, acknowledged)
}

// PayBasket handles POST /api/v1/basket/pay
func (h *StorefrontHandler) PayBasket(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	card, err := domain.NewPaymentToken(req.Card)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	res, err := h.basket.Pay(r.Context(), middleware.UserIDFromContext(r.Context()), card)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, MutationResponse{Result: 1, PaymentID: res.ProviderPaymentID})
}

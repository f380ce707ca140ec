package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// StorefrontHandler exposes the storefront view and its commands over HTTP.
type StorefrontHandler struct {
	service  service.StorefrontService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStorefrontHandler creates a new storefront handler.
func NewStorefrontHandler(service service.StorefrontService, logger zerolog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "storefront").Logger(),
	}
}

// View handles GET /api/view.
func (h *StorefrontHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Render())
}

// ChangeFilters handles POST /api/filters.
func (h *StorefrontHandler) ChangeFilters(w http.ResponseWriter, r *http.Request) {
	var req model.FilterChange
	if code, err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, code, err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.OnFilterChanged(req))
}

// ChangePage handles POST /api/page.
func (h *StorefrontHandler) ChangePage(w http.ResponseWriter, r *http.Request) {
	var req model.PageChange
	if code, err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, code, err.Error(), h.logger)
		return
	}
	if req.Empty() {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "page or action is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.OnPageChanged(req))
}

// AddItem handles POST /api/cart/items. Quantity defaults to 1.
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddToCartRequest
	if code, err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, code, err.Error(), h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	h.cartAction(w, r, model.CartAction{
		Kind:      model.CartAdd,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

// IncrementItem handles POST /api/cart/items/{id}/increment.
func (h *StorefrontHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, model.CartIncrement)
}

// DecrementItem handles POST /api/cart/items/{id}/decrement.
func (h *StorefrontHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, model.CartDecrement)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, model.CartRemove)
}

// ClearCart handles DELETE /api/cart.
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, model.CartAction{Kind: model.CartClear})
}

// ReloadCatalog handles POST /api/catalog/reload.
func (h *StorefrontHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Reload(r.Context()))
}

// Checkout handles POST /api/checkout.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	handoff, err := h.service.Checkout(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, handoff)
}

// ResetStorage handles DELETE /api/storage.
func (h *StorefrontHandler) ResetStorage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ResetStorage(r.Context()))
}

func (h *StorefrontHandler) lineAction(w http.ResponseWriter, r *http.Request, kind model.CartActionKind) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid product ID", h.logger)
		return
	}

	h.cartAction(w, r, model.CartAction{Kind: kind, ProductID: id})
}

func (h *StorefrontHandler) cartAction(w http.ResponseWriter, r *http.Request, action model.CartAction) {
	view, err := h.service.OnCartAction(r.Context(), action)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

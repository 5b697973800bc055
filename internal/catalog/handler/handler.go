// Package handler exposes the catalog over HTTP: a public product fetch and
// admin CRUD behind the shared admin token.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktag/internal/catalog/models"
	"stocktag/internal/http/shared"
	"stocktag/internal/platform/middleware"
	dErrors "stocktag/pkg/domain-errors"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	Create(ctx context.Context, sku, name, description string) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
}

// Handler handles catalog endpoints.
type Handler struct {
	logger     *slog.Logger
	catalog    Service
	adminToken string
}

// New creates a catalog Handler.
func New(catalog Service, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		catalog:    catalog,
		adminToken: adminToken,
	}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products/{sku}", h.handleGetProduct)

	admin := chi.NewRouter()
	admin.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
	admin.Post("/products", h.handleCreateProduct)
	admin.Get("/products", h.handleListProducts)
	r.Mount("/admin", admin)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	product, err := h.catalog.Create(ctx, req.SKU, req.Name, req.Description)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeConflict) && !dErrors.Is(err, dErrors.CodeInvariantViolation) {
			h.logger.ErrorContext(ctx, "product creation failed",
				"request_id", middleware.GetRequestID(ctx),
				"sku", req.SKU,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Package handler is the thin HTTP layer over the tracking-code core. It
// implements the collaborator contract: 400 with the typed reason when a
// scan is invalid, 404 when a decoded reference misses the catalog, 500
// only on contract violations inside the core.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	catalogmodels "stocktag/internal/catalog/models"
	"stocktag/internal/http/shared"
	"stocktag/internal/platform/middleware"
	"stocktag/internal/tracking/models"
	dErrors "stocktag/pkg/domain-errors"
)

// Generator is the single-SKU surface of the tracking core.
type Generator interface {
	GenerateTrackingCodes(ctx context.Context, sku string) (*models.TrackingCodeSet, error)
	Classify(raw string) models.ParseResult
}

// BatchGenerator is the bulk generation surface.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, skus []string) models.BatchResult
}

// Catalog is the product lookup/assignment collaborator.
type Catalog interface {
	GetBySKU(ctx context.Context, sku string) (*catalogmodels.Product, error)
	GetByCode(ctx context.Context, code string) (*catalogmodels.Product, error)
	AssignCodes(ctx context.Context, sku string, codes models.TrackingCodeSet) (*catalogmodels.Product, error)
}

// Handler handles tracking-code endpoints.
type Handler struct {
	logger    *slog.Logger
	generator Generator
	batch     BatchGenerator
	catalog   Catalog
}

// New creates a tracking Handler.
func New(generator Generator, batch BatchGenerator, catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		generator: generator,
		batch:     batch,
		catalog:   catalog,
	}
}

// Register registers the tracking routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tracking/codes", h.handleGenerate)
	r.Post("/tracking/codes/batch", h.handleGenerateBatch)
	r.Post("/tracking/scan", h.handleScan)
}

type generateRequest struct {
	SKU string `json:"sku"`
}

type generateResponse struct {
	SKU   string                 `json:"sku"`
	Codes models.TrackingCodeSet `json:"codes"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SKU == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sku is required"))
		return
	}

	// The catalog owns SKUs: codes are only assigned to known products.
	if _, err := h.catalog.GetBySKU(ctx, req.SKU); err != nil {
		shared.WriteError(w, err)
		return
	}

	set, err := h.generator.GenerateTrackingCodes(ctx, req.SKU)
	if err != nil {
		h.logger.ErrorContext(ctx, "code generation failed",
			"request_id", middleware.GetRequestID(ctx),
			"sku", req.SKU,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if _, err := h.catalog.AssignCodes(ctx, req.SKU, *set); err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, generateResponse{SKU: req.SKU, Codes: *set})
}

type batchRequest struct {
	SKUs []string `json:"skus"`
}

type batchResponse struct {
	Results models.BatchResult `json:"results"`
}

func (h *Handler) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	results := h.batch.GenerateBatch(ctx, req.SKUs)

	// Persist successful assignments; a SKU missing from the catalog keeps
	// its generated entry in the response but is not recorded.
	for sku, set := range results {
		if set.IsEmpty() {
			continue
		}
		if _, err := h.catalog.AssignCodes(ctx, sku, *set); err != nil {
			h.logger.WarnContext(ctx, "batch assignment skipped",
				"request_id", middleware.GetRequestID(ctx),
				"sku", sku,
				"error", err.Error(),
			)
		}
	}

	shared.WriteJSON(w, http.StatusOK, batchResponse{Results: results})
}

type scanRequest struct {
	Code string `json:"code"`
}

type scanResponse struct {
	Result  models.ParseResult     `json:"result"`
	Product *catalogmodels.Product `json:"product,omitempty"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Code == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "code is required"))
		return
	}

	result := h.generator.Classify(req.Code)
	if !result.Valid {
		// A malformed scan is a normal outcome with a typed reason.
		shared.WriteJSON(w, http.StatusBadRequest, scanResponse{Result: result})
		return
	}

	var (
		product *catalogmodels.Product
		err     error
	)
	if result.Type == models.CodeTypeQR {
		product, err = h.catalog.GetBySKU(ctx, result.Data.SKU)
	} else {
		product, err = h.catalog.GetByCode(ctx, req.Code)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, scanResponse{Result: result, Product: product})
}

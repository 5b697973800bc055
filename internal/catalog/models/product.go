// Package models defines the product catalog aggregate. The catalog is the
// owner of record for SKUs and for which tracking code values are currently
// assigned to each product.
package models

import (
	"time"

	"github.com/google/uuid"

	trackingmodels "stocktag/internal/tracking/models"
	dErrors "stocktag/pkg/domain-errors"
)

// ProductStatus is the lifecycle state of a catalog entry.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a catalog entry keyed by its SKU.
//
// Invariants:
//   - SKU is non-empty, at most 64 characters, and stable for the product's
//     lifetime
//   - Name is non-empty and at most 128 characters
//   - Codes is replaced wholesale on reassignment, never mutated in place
type Product struct {
	ID          uuid.UUID                      `json:"id"`
	SKU         string                         `json:"sku"`
	Name        string                         `json:"name"`
	Description string                         `json:"description,omitempty"`
	Status      ProductStatus                  `json:"status"`
	Codes       trackingmodels.TrackingCodeSet `json:"codes"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// AssignCodes replaces the product's tracking code set.
func (p *Product) AssignCodes(codes trackingmodels.TrackingCodeSet, now time.Time) {
	p.Codes = codes
	p.UpdatedAt = now
}

// NewProduct validates invariants and builds an active product.
func NewProduct(id uuid.UUID, sku, name, description string, now time.Time) (*Product, error) {
	if sku == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product sku cannot be empty")
	}
	if len(sku) > 64 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product sku must be 64 characters or less")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product name must be 128 characters or less")
	}
	return &Product{
		ID:          id,
		SKU:         sku,
		Name:        name,
		Description: description,
		Status:      ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Package store provides the catalog persistence implementations: an
// in-memory store for development and tests, a PostgreSQL store for
// production, and a Redis read-through cache decorator.
package store

import (
	"context"

	"stocktag/internal/catalog/models"
	trackingmodels "stocktag/internal/tracking/models"
)

// Store is the catalog persistence contract. Implementations return
// sentinel errors (pkg/platform/sentinel) for infrastructure facts; the
// service layer translates them into domain errors.
type Store interface {
	Create(ctx context.Context, product *models.Product) error
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	// FindByCode resolves a scanned barcode, RFID or NFC code value to the
	// product it is assigned to.
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	// SaveCodes replaces the tracking code set assigned to a SKU and
	// reindexes the scannable code values.
	SaveCodes(ctx context.Context, sku string, codes trackingmodels.TrackingCodeSet) error
}

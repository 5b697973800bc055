// Package service implements catalog operations on top of a Store,
// translating sentinel store facts into domain errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stocktag/internal/catalog/models"
	"stocktag/internal/catalog/store"
	trackingmodels "stocktag/internal/tracking/models"
	dErrors "stocktag/pkg/domain-errors"
	"stocktag/pkg/platform/sentinel"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	svc := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create registers a new product under a unique SKU.
func (s *Service) Create(ctx context.Context, sku, name, description string) (*models.Product, error) {
	product, err := models.NewProduct(uuid.New(), sku, name, description, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, product); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}
	return product, nil
}

// GetBySKU looks a product up by its stable key.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if sku == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}
	product, err := s.store.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up product")
	}
	return product, nil
}

// GetByCode resolves an assigned barcode, RFID or NFC code value to its
// product.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code is required")
	}
	product, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no product assigned to this code")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up product by code")
	}
	return product, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// AssignCodes records a freshly generated code set as the product's current
// assignment and returns the updated product.
func (s *Service) AssignCodes(ctx context.Context, sku string, codes trackingmodels.TrackingCodeSet) (*models.Product, error) {
	if err := s.store.SaveCodes(ctx, sku, codes); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign codes")
	}
	return s.GetBySKU(ctx, sku)
}

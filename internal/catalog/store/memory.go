package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"stocktag/internal/catalog/models"
	trackingmodels "stocktag/internal/tracking/models"
	"stocktag/pkg/platform/sentinel"
)

// InMemory is the default store for development and tests. Products are
// copied on the way in and out so callers never share mutable state with
// the store.
type InMemory struct {
	mu     sync.RWMutex
	bySKU  map[string]*models.Product
	byCode map[string]string // scannable code value -> sku
}

func NewInMemory() *InMemory {
	return &InMemory{
		bySKU:  make(map[string]*models.Product),
		byCode: make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySKU[product.SKU]; exists {
		return sentinel.ErrConflict
	}
	s.bySKU[product.SKU] = clone(product)
	s.index(product.SKU, product.Codes)
	return nil
}

func (s *InMemory) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.bySKU[sku]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(product), nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sku, exists := s.byCode[code]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	product, exists := s.bySKU[sku]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(product), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*models.Product, 0, len(s.bySKU))
	for _, product := range s.bySKU {
		products = append(products, clone(product))
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].SKU < products[j].SKU
	})
	return products, nil
}

func (s *InMemory) SaveCodes(_ context.Context, sku string, codes trackingmodels.TrackingCodeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.bySKU[sku]
	if !exists {
		return sentinel.ErrNotFound
	}
	s.unindex(product.Codes)
	product.AssignCodes(codes, time.Now())
	s.index(sku, codes)
	return nil
}

func (s *InMemory) index(sku string, codes trackingmodels.TrackingCodeSet) {
	for _, value := range codes.ScannableValues() {
		s.byCode[value] = sku
	}
}

func (s *InMemory) unindex(codes trackingmodels.TrackingCodeSet) {
	for _, value := range codes.ScannableValues() {
		delete(s.byCode, value)
	}
}

func clone(p *models.Product) *models.Product {
	copied := *p
	return &copied
}

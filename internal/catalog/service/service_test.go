package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktag/internal/catalog/store"
	trackingmodels "stocktag/internal/tracking/models"
	dErrors "stocktag/pkg/domain-errors"
)

type CatalogServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	service *Service
	ctx     context.Context
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ctx = context.Background()

	var err error
	s.service, err = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }),
	)
	s.Require().NoError(err)
}

func (s *CatalogServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
	})
}

func (s *CatalogServiceSuite) TestCreate() {
	s.Run("creates an active product", func() {
		product, err := s.service.Create(s.ctx, "ELEC-100", "Desk Lamp", "LED, warm white")
		s.Require().NoError(err)
		s.Equal("ELEC-100", product.SKU)
		s.True(product.IsActive())
		s.NotZero(product.ID)
	})

	s.Run("duplicate sku maps to conflict", func() {
		_, err := s.service.Create(s.ctx, "DUP-1", "First", "")
		s.Require().NoError(err)
		_, err = s.service.Create(s.ctx, "DUP-1", "Second", "")
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("invariant violations surface directly", func() {
		_, err := s.service.Create(s.ctx, "", "No SKU", "")
		s.True(dErrors.Is(err, dErrors.CodeInvariantViolation))

		_, err = s.service.Create(s.ctx, "SKU-1", "", "")
		s.True(dErrors.Is(err, dErrors.CodeInvariantViolation))
	})
}

func (s *CatalogServiceSuite) TestLookups() {
	s.Run("missing sku maps to not found", func() {
		_, err := s.service.GetBySKU(s.ctx, "MISSING")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("empty sku is a bad request", func() {
		_, err := s.service.GetBySKU(s.ctx, "")
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("unassigned code maps to not found", func() {
		_, err := s.service.GetByCode(s.ctx, "123000001009")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *CatalogServiceSuite) TestAssignCodes() {
	codes := trackingmodels.TrackingCodeSet{
		Barcode: "123000001009",
		NFC:     "https://example.com/product/ELEC-100",
	}

	s.Run("assigns and resolves codes", func() {
		_, err := s.service.Create(s.ctx, "ELEC-100", "Desk Lamp", "")
		s.Require().NoError(err)

		product, err := s.service.AssignCodes(s.ctx, "ELEC-100", codes)
		s.Require().NoError(err)
		s.Equal(codes, product.Codes)

		found, err := s.service.GetByCode(s.ctx, "123000001009")
		s.Require().NoError(err)
		s.Equal("ELEC-100", found.SKU)
	})

	s.Run("assignment to unknown sku maps to not found", func() {
		_, err := s.service.AssignCodes(s.ctx, "MISSING", codes)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

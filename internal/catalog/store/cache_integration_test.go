//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"stocktag/internal/catalog/models"
	"stocktag/internal/catalog/store"
	trackingmodels "stocktag/internal/tracking/models"
	"stocktag/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *store.InMemory
	store *store.Cached
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))

	s.inner = store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = store.NewCached(s.inner, s.redis.Client, time.Minute, logger)
}

func (s *CachedStoreSuite) seedProduct(sku string) *models.Product {
	product, err := models.NewProduct(uuid.New(), sku, "Test Product", "", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), product))
	return product
}

func (s *CachedStoreSuite) TestReadThrough() {
	ctx := context.Background()
	product := s.seedProduct("ELEC-100")

	// First read populates the cache.
	found, err := s.store.FindBySKU(ctx, "ELEC-100")
	s.Require().NoError(err)
	s.Equal(product.ID, found.ID)

	exists, err := s.redis.Client.Exists(ctx, "catalog:sku:ELEC-100").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)

	// Second read is served from the cache, not the inner store.
	again, err := s.store.FindBySKU(ctx, "ELEC-100")
	s.Require().NoError(err)
	s.Equal(product.ID, again.ID)
}

func (s *CachedStoreSuite) TestCodeLookupCaching() {
	ctx := context.Background()
	s.seedProduct("ELEC-100")

	codes := trackingmodels.TrackingCodeSet{Barcode: "123000001009"}
	s.Require().NoError(s.store.SaveCodes(ctx, "ELEC-100", codes))

	found, err := s.store.FindByCode(ctx, "123000001009")
	s.Require().NoError(err)
	s.Equal("ELEC-100", found.SKU)

	exists, err := s.redis.Client.Exists(ctx, "catalog:code:123000001009").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)
}

// TestInvalidationOnReassignment verifies a stale cached code entry cannot
// survive a reassignment.
func (s *CachedStoreSuite) TestInvalidationOnReassignment() {
	ctx := context.Background()
	s.seedProduct("ELEC-100")

	first := trackingmodels.TrackingCodeSet{Barcode: "123000001009"}
	s.Require().NoError(s.store.SaveCodes(ctx, "ELEC-100", first))

	// Warm the cache with the first barcode.
	_, err := s.store.FindByCode(ctx, "123000001009")
	s.Require().NoError(err)

	second := trackingmodels.TrackingCodeSet{Barcode: "123000002008"}
	s.Require().NoError(s.store.SaveCodes(ctx, "ELEC-100", second))

	// The old code key is gone from the cache and from the inner store.
	exists, err := s.redis.Client.Exists(ctx, "catalog:code:123000001009").Result()
	s.Require().NoError(err)
	s.Equal(int64(0), exists)

	_, err = s.store.FindByCode(ctx, "123000001009")
	s.Error(err)

	found, err := s.store.FindByCode(ctx, "123000002008")
	s.Require().NoError(err)
	s.Equal(second, found.Codes)
}

// TestStaleSKUEntryInvalidated verifies the cached product by SKU reflects a
// reassignment rather than the snapshot cached before it.
func (s *CachedStoreSuite) TestStaleSKUEntryInvalidated() {
	ctx := context.Background()
	s.seedProduct("ELEC-100")

	// Warm the SKU cache with the codeless snapshot.
	_, err := s.store.FindBySKU(ctx, "ELEC-100")
	s.Require().NoError(err)

	codes := trackingmodels.TrackingCodeSet{Barcode: "123000001009"}
	s.Require().NoError(s.store.SaveCodes(ctx, "ELEC-100", codes))

	found, err := s.store.FindBySKU(ctx, "ELEC-100")
	s.Require().NoError(err)
	s.Equal(codes, found.Codes)
}

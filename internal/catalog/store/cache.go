package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stocktag/internal/catalog/models"
	trackingmodels "stocktag/internal/tracking/models"
)

const (
	cacheSKUKeyPrefix  = "catalog:sku:"
	cacheCodeKeyPrefix = "catalog:code:"
)

// Cached is a read-through cache decorator over another Store. Scan traffic
// is read-heavy (every POS scan is a lookup), so products are cached by SKU
// and by assigned code value with a bounded TTL. Cache failures degrade to
// the inner store rather than failing the request.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a Redis read-through cache.
func NewCached(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (s *Cached) Create(ctx context.Context, product *models.Product) error {
	return s.inner.Create(ctx, product)
}

func (s *Cached) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if product, ok := s.cached(ctx, cacheSKUKeyPrefix+sku); ok {
		return product, nil
	}
	product, err := s.inner.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, cacheSKUKeyPrefix+sku, product)
	return product, nil
}

func (s *Cached) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	if product, ok := s.cached(ctx, cacheCodeKeyPrefix+code); ok {
		return product, nil
	}
	product, err := s.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, cacheCodeKeyPrefix+code, product)
	return product, nil
}

func (s *Cached) List(ctx context.Context) ([]*models.Product, error) {
	return s.inner.List(ctx)
}

// SaveCodes writes through and invalidates every key the product could be
// cached under, old and new code values included.
func (s *Cached) SaveCodes(ctx context.Context, sku string, codes trackingmodels.TrackingCodeSet) error {
	previous, err := s.inner.FindBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if err := s.inner.SaveCodes(ctx, sku, codes); err != nil {
		return err
	}

	keys := []string{cacheSKUKeyPrefix + sku}
	for _, value := range previous.Codes.ScannableValues() {
		keys = append(keys, cacheCodeKeyPrefix+value)
	}
	for _, value := range codes.ScannableValues() {
		keys = append(keys, cacheCodeKeyPrefix+value)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed", "sku", sku, "error", err.Error())
	}
	return nil
}

func (s *Cached) cached(ctx context.Context, key string) (*models.Product, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err.Error())
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		s.logger.WarnContext(ctx, "catalog cache entry corrupt", "key", key, "error", err.Error())
		return nil, false
	}
	return &product, true
}

func (s *Cached) cache(ctx context.Context, key string, product *models.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err.Error())
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"stocktag/internal/tracking/metrics"
	"stocktag/internal/tracking/models"
	pstrings "stocktag/pkg/platform/strings"
)

const defaultChunkSize = 10

// CodeGenerator is the per-SKU dependency of the batch coordinator.
type CodeGenerator interface {
	GenerateTrackingCodes(ctx context.Context, sku string) (*models.TrackingCodeSet, error)
}

// Coordinator fans out code generation over many SKUs in bounded waves:
// one chunk runs concurrently, the coordinator waits for the whole chunk,
// then releases the next. This keeps the QR image encoder from being
// overwhelmed by unbounded fan-out.
type Coordinator struct {
	generator CodeGenerator
	chunkSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

func WithChunkSize(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithCoordinatorMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator constructs a batch coordinator.
func NewCoordinator(generator CodeGenerator, opts ...CoordinatorOption) (*Coordinator, error) {
	if generator == nil {
		return nil, fmt.Errorf("code generator is required")
	}
	c := &Coordinator{
		generator: generator,
		chunkSize: defaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateBatch generates a code set per distinct input SKU. Duplicates
// collapse to one entry. Per-SKU failure is isolated: the entry becomes an
// empty set and the batch continues. There is no cancellation: once issued,
// the batch runs to completion.
func (c *Coordinator) GenerateBatch(ctx context.Context, skus []string) models.BatchResult {
	distinct := pstrings.Dedupe(skus)
	result := make(models.BatchResult, len(distinct))
	var mu sync.Mutex

	for start := 0; start < len(distinct); start += c.chunkSize {
		end := min(start+c.chunkSize, len(distinct))

		var g errgroup.Group
		for _, sku := range distinct[start:end] {
			g.Go(func() error {
				set, err := c.generator.GenerateTrackingCodes(ctx, sku)
				if err != nil {
					c.logger.WarnContext(ctx, "batch generation failed for sku",
						"sku", sku,
						"error", err.Error(),
					)
					set = &models.TrackingCodeSet{}
				}
				mu.Lock()
				result[sku] = set
				mu.Unlock()
				return nil
			})
		}
		// Workers isolate their own failures, so Wait only synchronizes
		// the chunk boundary.
		_ = g.Wait()
	}

	c.metrics.ObserveBatchSize(len(distinct))
	return result
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the tracking-code domain.
// All methods are nil-safe so tests and callers without observability can
// pass a nil *Metrics.
type Metrics struct {
	CodesGenerated     *prometheus.CounterVec
	GenerationFailures *prometheus.CounterVec
	ScansClassified    *prometheus.CounterVec
	BatchSKUs          prometheus.Histogram
}

// New creates and registers all tracking metrics on the default registry.
// Call at most once per process.
func New() *Metrics {
	return &Metrics{
		CodesGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stocktag_tracking_codes_generated_total",
			Help: "Total number of tracking codes generated, by technology",
		}, []string{"technology"}),
		GenerationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stocktag_tracking_generation_failures_total",
			Help: "Total number of per-technology generation failures",
		}, []string{"technology"}),
		ScansClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stocktag_tracking_scans_classified_total",
			Help: "Total number of scanned strings classified, by detected type and validity",
		}, []string{"type", "valid"}),
		BatchSKUs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocktag_tracking_batch_skus",
			Help:    "Number of distinct SKUs per batch generation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

func (m *Metrics) IncrementGenerated(technology string) {
	if m == nil {
		return
	}
	m.CodesGenerated.WithLabelValues(technology).Inc()
}

func (m *Metrics) IncrementGenerationFailure(technology string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(technology).Inc()
}

func (m *Metrics) IncrementScan(codeType string, valid bool) {
	if m == nil {
		return
	}
	m.ScansClassified.WithLabelValues(codeType, strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m == nil {
		return
	}
	m.BatchSKUs.Observe(float64(n))
}

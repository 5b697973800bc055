// Package service implements tracking-code generation, validation and
// classification. The service is pure and stateless: it owns no persistent
// state and is safe for concurrent use.
package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"stocktag/internal/tracking/metrics"
)

const (
	defaultQRSize = 256

	qrPayloadType    = "product"
	qrPayloadVersion = "1.0"
)

var (
	barcodePrefixShape = regexp.MustCompile(`^\d{3}$`)
	rfidPrefixShape    = regexp.MustCompile(`^\d{7}$`)
)

// Config carries the registrar-assigned and deployment-specific parameters.
// The company prefixes are placeholders until a real registrar assignment
// exists; they are configuration, never literals in the code paths.
type Config struct {
	// BarcodeCompanyPrefix is the fixed 3-digit UPC-A company prefix.
	BarcodeCompanyPrefix string
	// RFIDCompanyPrefix is the 7-digit SGTIN company prefix.
	RFIDCompanyPrefix string
	// NFCBaseURL is the base of the dereferenceable product-detail link,
	// e.g. "https://stocktag.example.com".
	NFCBaseURL string
	// QRSize is the pixel width/height of the generated QR image.
	QRSize int
}

// Service generates, validates and classifies tracking codes.
type Service struct {
	barcodePrefix string
	rfidPrefix    string
	nfcBaseURL    string
	qrSize        int

	logger  *slog.Logger
	metrics *metrics.Metrics

	// Injected for determinism in tests; production uses wall clock,
	// crypto/rand and the real QR encoder.
	now      func() time.Time
	random   io.Reader
	encodeQR func(content string, size int) ([]byte, error)
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRandom overrides the RFID serial entropy source.
func WithRandom(r io.Reader) Option {
	return func(s *Service) {
		s.random = r
	}
}

// WithQREncoder overrides the QR image encoder.
func WithQREncoder(encode func(content string, size int) ([]byte, error)) Option {
	return func(s *Service) {
		s.encodeQR = encode
	}
}

// New constructs a Service. The company prefixes must already have their
// exact registrar shape: generated codes embed them verbatim.
func New(cfg Config, opts ...Option) (*Service, error) {
	if !barcodePrefixShape.MatchString(cfg.BarcodeCompanyPrefix) {
		return nil, fmt.Errorf("barcode company prefix must be exactly 3 digits, got %q", cfg.BarcodeCompanyPrefix)
	}
	if !rfidPrefixShape.MatchString(cfg.RFIDCompanyPrefix) {
		return nil, fmt.Errorf("rfid company prefix must be exactly 7 digits, got %q", cfg.RFIDCompanyPrefix)
	}
	base, err := url.Parse(cfg.NFCBaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("nfc base URL must be an absolute http or https URL, got %q", cfg.NFCBaseURL)
	}
	size := cfg.QRSize
	if size <= 0 {
		size = defaultQRSize
	}

	svc := &Service{
		barcodePrefix: cfg.BarcodeCompanyPrefix,
		rfidPrefix:    cfg.RFIDCompanyPrefix,
		nfcBaseURL:    base.String(),
		qrSize:        size,
		logger:        slog.Default(),
		now:           time.Now,
		random:        rand.Reader,
		encodeQR: func(content string, size int) ([]byte, error) {
			return qrcode.Encode(content, qrcode.Medium, size)
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

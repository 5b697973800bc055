package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktag/internal/tracking/models"
)

var testConfig = Config{
	BarcodeCompanyPrefix: "123",
	RFIDCompanyPrefix:    "0123456",
	NFCBaseURL:           "https://stocktag.example.com",
	QRSize:               128,
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	svc, err := New(testConfig, append(base, opts...)...)
	if err != nil {
		t.Fatalf("service init failed: %v", err)
	}
	return svc
}

type GeneratorSuite struct {
	suite.Suite
	service *Service
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.service = newTestService(s.T())
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *GeneratorSuite) TestNew() {
	s.Run("rejects malformed barcode prefix", func() {
		cfg := testConfig
		cfg.BarcodeCompanyPrefix = "12"
		_, err := New(cfg)
		s.Error(err)
	})

	s.Run("rejects malformed rfid prefix", func() {
		cfg := testConfig
		cfg.RFIDCompanyPrefix = "12345678"
		_, err := New(cfg)
		s.Error(err)
	})

	s.Run("rejects non-http nfc base", func() {
		cfg := testConfig
		cfg.NFCBaseURL = "ftp://example.com"
		_, err := New(cfg)
		s.Error(err)
	})
}

// =============================================================================
// Barcode Tests
// =============================================================================

func (s *GeneratorSuite) TestGenerateBarcode() {
	s.Run("conformance vector for ELEC-100", func() {
		// 123 + 00000100 + check digit 9; fixed cross-implementation vector.
		code, err := s.service.GenerateBarcode("ELEC-100")
		s.Require().NoError(err)
		s.Equal("123000001009", code)
	})

	s.Run("is deterministic", func() {
		first, err := s.service.GenerateBarcode("SKU-001")
		s.Require().NoError(err)
		second, err := s.service.GenerateBarcode("SKU-001")
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("truncates long digit runs to eight", func() {
		code, err := s.service.GenerateBarcode("9876543210123")
		s.Require().NoError(err)
		s.Equal("12398765432", code[:11])
	})

	s.Run("pads sku without digits to all zeros", func() {
		code, err := s.service.GenerateBarcode("WIDGET")
		s.Require().NoError(err)
		s.Equal("12300000000", code[:11])
	})

	s.Run("round-trips through validation", func() {
		for _, sku := range []string{"ELEC-100", "SKU-001", "WIDGET", "A1B2C3D4E5F6G7"} {
			code, err := s.service.GenerateBarcode(sku)
			s.Require().NoError(err)
			result := s.service.ValidateBarcode(code)
			s.True(result.Valid, "barcode for %s should validate: %s", sku, result.Error)
		}
	})

	s.Run("rejects empty sku", func() {
		_, err := s.service.GenerateBarcode("")
		s.Error(err)
	})
}

// =============================================================================
// RFID Tests
// =============================================================================

func (s *GeneratorSuite) TestGenerateRFID() {
	s.Run("fixed entropy yields fixed serial", func() {
		svc := newTestService(s.T(), WithRandom(bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF})))
		code, err := svc.GenerateRFID("SKU-001")
		s.Require().NoError(err)
		s.Equal("urn:epc:id:sgtin:0123456.SKU00.DEADBEEF", code)
	})

	s.Run("serial varies, prefix and item reference do not", func() {
		first, err := s.service.GenerateRFID("SKU-001")
		s.Require().NoError(err)
		second, err := s.service.GenerateRFID("SKU-001")
		s.Require().NoError(err)
		s.NotEqual(first, second)

		// Everything before the serial segment is deterministic.
		s.Equal(first[:strings.LastIndex(first, ".")], second[:strings.LastIndex(second, ".")])
	})

	s.Run("short sku is left-padded to five characters", func() {
		svc := newTestService(s.T(), WithRandom(bytes.NewReader([]byte{0, 0, 0, 0})))
		code, err := svc.GenerateRFID("A1")
		s.Require().NoError(err)
		s.Equal("urn:epc:id:sgtin:0123456.000A1.00000000", code)
	})

	s.Run("round-trips through validation", func() {
		code, err := s.service.GenerateRFID("SKU-001")
		s.Require().NoError(err)
		s.True(s.service.ValidateRFID(code).Valid)
	})
}

// =============================================================================
// NFC Tests
// =============================================================================

func (s *GeneratorSuite) TestGenerateNFC() {
	s.Run("builds product detail link", func() {
		code, err := s.service.GenerateNFC("SKU-001")
		s.Require().NoError(err)
		s.Equal("https://stocktag.example.com/product/SKU-001", code)
	})

	s.Run("escapes unsafe sku characters", func() {
		code, err := s.service.GenerateNFC("SKU 001/A")
		s.Require().NoError(err)
		s.True(s.service.ValidateNFC(code).Valid)
	})
}

// =============================================================================
// QR Tests
// =============================================================================

func (s *GeneratorSuite) TestGenerateQR() {
	s.Run("encodes canonical payload as png data uri", func() {
		var captured string
		frozen := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		svc := newTestService(s.T(),
			WithClock(func() time.Time { return frozen }),
			WithQREncoder(func(content string, size int) ([]byte, error) {
				captured = content
				s.Equal(128, size)
				return []byte("png-bytes"), nil
			}),
		)

		code, err := svc.GenerateQR("SKU-001")
		s.Require().NoError(err)
		s.Equal("data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("png-bytes")), code)

		var payload models.QRPayload
		s.Require().NoError(json.Unmarshal([]byte(captured), &payload))
		s.Equal("product", payload.Type)
		s.Equal("SKU-001", payload.SKU)
		s.Equal(frozen, payload.Timestamp)
		s.Equal("1.0", payload.Version)
	})

	s.Run("payload round-trips through validation", func() {
		var captured string
		svc := newTestService(s.T(), WithQREncoder(func(content string, _ int) ([]byte, error) {
			captured = content
			return []byte{1}, nil
		}))
		_, err := svc.GenerateQR("SKU-001")
		s.Require().NoError(err)

		result := svc.ValidateQR(captured)
		s.True(result.Valid)
		s.Equal("SKU-001", result.Data.SKU)
	})

	s.Run("real encoder produces scannable output", func() {
		code, err := s.service.GenerateQR("SKU-001")
		s.Require().NoError(err)
		s.True(strings.HasPrefix(code, "data:image/png;base64,"))
	})
}

// =============================================================================
// Fan-out Tests
// =============================================================================

func (s *GeneratorSuite) TestGenerateTrackingCodes() {
	ctx := context.Background()

	s.Run("produces all four technologies", func() {
		set, err := s.service.GenerateTrackingCodes(ctx, "ELEC-100")
		s.Require().NoError(err)
		s.Equal("123000001009", set.Barcode)
		s.NotEmpty(set.QR)
		s.NotEmpty(set.RFID)
		s.Equal("https://stocktag.example.com/product/ELEC-100", set.NFC)
	})

	s.Run("a failing technology is omitted, siblings survive", func() {
		svc := newTestService(s.T(), WithQREncoder(func(string, int) ([]byte, error) {
			return nil, errors.New("encoder out of memory")
		}))
		set, err := svc.GenerateTrackingCodes(ctx, "ELEC-100")
		s.Require().NoError(err)
		s.Empty(set.QR)
		s.Equal("123000001009", set.Barcode)
		s.NotEmpty(set.RFID)
		s.NotEmpty(set.NFC)
	})

	s.Run("empty sku is a contract violation", func() {
		_, err := s.service.GenerateTrackingCodes(ctx, "")
		s.Error(err)
	})
}

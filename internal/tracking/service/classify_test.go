package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"stocktag/internal/tracking/models"
)

type ClassifySuite struct {
	suite.Suite
	service *Service
}

func TestClassifySuite(t *testing.T) {
	suite.Run(t, new(ClassifySuite))
}

func (s *ClassifySuite) SetupTest() {
	s.service = newTestService(s.T())
}

// Freshly generated codes classify back to their own technology.
func (s *ClassifySuite) TestRoundTrip() {
	s.Run("barcode", func() {
		code, err := s.service.GenerateBarcode("ELEC-100")
		s.Require().NoError(err)
		result := s.service.Classify(code)
		s.Equal(models.CodeTypeBarcode, result.Type)
		s.True(result.Valid)
		s.Equal(code, result.Data.Code)
	})

	s.Run("rfid", func() {
		code, err := s.service.GenerateRFID("ELEC-100")
		s.Require().NoError(err)
		result := s.service.Classify(code)
		s.Equal(models.CodeTypeRFID, result.Type)
		s.True(result.Valid)
	})

	s.Run("nfc", func() {
		code, err := s.service.GenerateNFC("ELEC-100")
		s.Require().NoError(err)
		result := s.service.Classify(code)
		s.Equal(models.CodeTypeNFC, result.Type)
		s.True(result.Valid)
	})

	s.Run("qr payload json", func() {
		var captured string
		svc := newTestService(s.T(), WithQREncoder(func(content string, _ int) ([]byte, error) {
			captured = content
			return []byte{1}, nil
		}))
		_, err := svc.GenerateQR("ELEC-100")
		s.Require().NoError(err)

		result := svc.Classify(captured)
		s.Equal(models.CodeTypeQR, result.Type)
		s.True(result.Valid)
		s.Equal("ELEC-100", result.Data.SKU)
	})
}

func (s *ClassifySuite) TestTriageOrder() {
	s.Run("rendered qr image routes to the qr branch", func() {
		result := s.service.Classify("data:image/png;base64,AAAA")
		s.Equal(models.CodeTypeQR, result.Type)
		// The image form carries no decodable payload; only the JSON form does.
		s.False(result.Valid)
	})

	s.Run("twelve digits always triage as barcode", func() {
		// Arbitrary 12 digits: type is decided structurally, validity solely
		// by the check digit.
		result := s.service.Classify("123456789012")
		s.Equal(models.CodeTypeBarcode, result.Type)
		s.False(result.Valid)
		s.Equal(reasonBarcodeChecksum, result.Error)

		result = s.service.Classify("123456789014")
		s.Equal(models.CodeTypeBarcode, result.Type)
		s.True(result.Valid)
	})

	s.Run("sgtin urn triages as rfid before nfc", func() {
		// A URN is not an http URL; order ensures it never reaches the nfc
		// branch.
		result := s.service.Classify("urn:epc:id:sgtin:0123456.SKU00.DEADBEEF")
		s.Equal(models.CodeTypeRFID, result.Type)
		s.True(result.Valid)
	})

	s.Run("http prefix triages as nfc even when invalid", func() {
		result := s.service.Classify("http-not-a-url")
		s.Equal(models.CodeTypeNFC, result.Type)
		s.False(result.Valid)
	})

	s.Run("eleven or thirteen digits fall through to unknown", func() {
		for _, raw := range []string{"12345678901", "1234567890123"} {
			result := s.service.Classify(raw)
			s.Equal(models.CodeTypeUnknown, result.Type)
		}
	})
}

func (s *ClassifySuite) TestUnknown() {
	for _, raw := range []string{"not-a-code-at-all", "", "SKU-001", "urn:isbn:0451450523"} {
		result := s.service.Classify(raw)
		s.Equal(models.CodeTypeUnknown, result.Type, "raw=%q", raw)
		s.False(result.Valid)
		s.Equal(reasonUnrecognized, result.Error)
		s.Nil(result.Data)
	}
}

// Classification of generated codes holds for a spread of SKU shapes.
func (s *ClassifySuite) TestDisambiguationProperty() {
	ctx := context.Background()
	for _, sku := range []string{"ELEC-100", "A", "12345678901234567890", "widget/blue#2"} {
		set, err := s.service.GenerateTrackingCodes(ctx, sku)
		s.Require().NoError(err)

		s.Equal(models.CodeTypeBarcode, s.service.Classify(set.Barcode).Type)
		s.Equal(models.CodeTypeRFID, s.service.Classify(set.RFID).Type)
		s.Equal(models.CodeTypeNFC, s.service.Classify(set.NFC).Type)
		s.Equal(models.CodeTypeQR, s.service.Classify(set.QR).Type)
	}
}

package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"stocktag/internal/tracking/checksum"
	"stocktag/internal/tracking/models"
	dErrors "stocktag/pkg/domain-errors"
)

const (
	barcodeProductDigits = 8
	rfidItemRefLength    = 5
	rfidSerialBytes      = 4
)

// GenerateBarcode builds the 12-digit UPC-A barcode for a SKU: company
// prefix + 8-digit product code derived from the SKU's digits + check digit.
// Deterministic: the same SKU always yields the same barcode.
func (s *Service) GenerateBarcode(sku string) (string, error) {
	if sku == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}
	product := padLeft(stripNonDigits(sku), barcodeProductDigits, '0')
	base := s.barcodePrefix + product
	digit, err := checksum.ComputeCheckDigit(base)
	if err != nil {
		// Unreachable while the prefix invariant holds; surface loudly anyway.
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "barcode base is malformed")
	}
	return fmt.Sprintf("%s%d", base, digit), nil
}

// GenerateRFID builds an SGTIN EPC URI for a SKU:
// urn:epc:id:sgtin:<7-digit prefix>.<5-char item reference>.<8-hex serial>.
// The serial is random so each physical tag is unique even for the same SKU;
// prefix and item reference are deterministic.
func (s *Service) GenerateRFID(sku string) (string, error) {
	if sku == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}
	itemRef := padLeft(stripNonAlphanumerics(sku), rfidItemRefLength, '0')
	serial := make([]byte, rfidSerialBytes)
	if _, err := s.random.Read(serial); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "rfid serial entropy unavailable")
	}
	return fmt.Sprintf("urn:epc:id:sgtin:%s.%s.%X", s.rfidPrefix, itemRef, serial), nil
}

// GenerateNFC builds the product-detail link written to NFC tags. Plain,
// dereferenceable, no checksum.
func (s *Service) GenerateNFC(sku string) (string, error) {
	if sku == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}
	return s.nfcBaseURL + "/product/" + url.PathEscape(sku), nil
}

// GenerateQR serializes the canonical payload JSON and encodes it as a PNG
// QR image (medium error correction), returned as a base64 data URI.
func (s *Service) GenerateQR(sku string) (string, error) {
	if sku == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}
	payload := models.QRPayload{
		Type:      qrPayloadType,
		SKU:       sku,
		Timestamp: s.now().UTC(),
		Version:   qrPayloadVersion,
	}
	content, err := json.Marshal(payload)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "qr payload serialization failed")
	}
	png, err := s.encodeQR(string(content), s.qrSize)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "qr image encoding failed")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateTrackingCodes fans out the four generators for one SKU. A failed
// technology is logged and omitted from the set; it never aborts the
// siblings. Only a contract violation (empty SKU) is returned as an error.
func (s *Service) GenerateTrackingCodes(ctx context.Context, sku string) (*models.TrackingCodeSet, error) {
	if sku == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "sku is required")
	}

	set := &models.TrackingCodeSet{}
	for _, gen := range []struct {
		technology models.CodeType
		generate   func(string) (string, error)
		field      *string
	}{
		{models.CodeTypeQR, s.GenerateQR, &set.QR},
		{models.CodeTypeBarcode, s.GenerateBarcode, &set.Barcode},
		{models.CodeTypeRFID, s.GenerateRFID, &set.RFID},
		{models.CodeTypeNFC, s.GenerateNFC, &set.NFC},
	} {
		code, err := gen.generate(sku)
		if err != nil {
			s.metrics.IncrementGenerationFailure(gen.technology.String())
			s.logger.WarnContext(ctx, "tracking code generation failed",
				"technology", gen.technology.String(),
				"sku", sku,
				"error", err.Error(),
			)
			continue
		}
		*gen.field = code
		s.metrics.IncrementGenerated(gen.technology.String())
	}
	return set, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripNonAlphanumerics(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// padLeft zero-fills s to length n, or keeps the first n characters when s
// is longer.
func padLeft(s string, n int, pad byte) string {
	if len(s) >= n {
		return s[:n]
	}
	return strings.Repeat(string(pad), n-len(s)) + s
}

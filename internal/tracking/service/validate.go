package service

import (
	"encoding/json"
	"net/url"
	"regexp"

	"stocktag/internal/tracking/checksum"
	"stocktag/internal/tracking/models"
)

// Validation error reasons. Malformed input (wrong shape) and checksum
// mismatch (well-formed but corrupted) are distinct so callers can tell
// garbage from tampering.
const (
	reasonBarcodeNotTwelveDigits = "barcode must be exactly 12 digits"
	reasonBarcodeChecksum        = "barcode check digit mismatch"
	reasonRFIDFormat             = "rfid code does not match the sgtin EPC format"
	reasonNFCFormat              = "nfc code must be an absolute http or https URI"
	reasonQRNotJSON              = "qr payload is not valid JSON"
	reasonQRWrongType            = `qr payload type must be "product"`
	reasonQRMissingSKU           = "qr payload is missing a sku"
)

var (
	barcodeShape = regexp.MustCompile(`^\d{12}$`)
	// The regex is the interop contract for SGTIN EPC URIs in this scheme.
	rfidShape = regexp.MustCompile(`^urn:epc:id:sgtin:\d{7}\.[A-Za-z0-9]{5}\.[A-F0-9]{8}$`)
)

// ValidateBarcode checks shape (exactly 12 ASCII digits) and then the UPC-A
// check digit. Structural and checksum failures carry distinct reasons.
func (s *Service) ValidateBarcode(code string) models.ParseResult {
	if !barcodeShape.MatchString(code) {
		return invalid(models.CodeTypeBarcode, reasonBarcodeNotTwelveDigits)
	}
	if !checksum.Verify(code) {
		return invalid(models.CodeTypeBarcode, reasonBarcodeChecksum)
	}
	return models.ParseResult{
		Type:  models.CodeTypeBarcode,
		Valid: true,
		Data:  &models.ScanData{Code: code},
	}
}

// ValidateRFID checks the SGTIN EPC URI shape. Structural only: no checksum
// exists for EPC in this scheme.
func (s *Service) ValidateRFID(code string) models.ParseResult {
	if !rfidShape.MatchString(code) {
		return invalid(models.CodeTypeRFID, reasonRFIDFormat)
	}
	return models.ParseResult{
		Type:  models.CodeTypeRFID,
		Valid: true,
		Data:  &models.ScanData{Code: code},
	}
}

// ValidateNFC checks that the code parses as an absolute http/https URI.
func (s *Service) ValidateNFC(code string) models.ParseResult {
	u, err := url.Parse(code)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(models.CodeTypeNFC, reasonNFCFormat)
	}
	return models.ParseResult{
		Type:  models.CodeTypeNFC,
		Valid: true,
		Data:  &models.ScanData{Code: code},
	}
}

// ValidateQR checks that the payload is JSON with type "product" and a
// non-empty sku, and extracts the sku. Unknown extra keys are tolerated for
// forward compatibility, as is a missing or malformed timestamp: only the
// type and sku fields are authoritative.
func (s *Service) ValidateQR(payload string) models.ParseResult {
	var decoded struct {
		Type string `json:"type"`
		SKU  string `json:"sku"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return invalid(models.CodeTypeQR, reasonQRNotJSON)
	}
	if decoded.Type != qrPayloadType {
		return invalid(models.CodeTypeQR, reasonQRWrongType)
	}
	if decoded.SKU == "" {
		return invalid(models.CodeTypeQR, reasonQRMissingSKU)
	}
	return models.ParseResult{
		Type:  models.CodeTypeQR,
		Valid: true,
		Data:  &models.ScanData{SKU: decoded.SKU},
	}
}

func invalid(t models.CodeType, reason string) models.ParseResult {
	return models.ParseResult{Type: t, Error: reason}
}

package service

import (
	"strings"

	"stocktag/internal/tracking/models"
)

const reasonUnrecognized = "unrecognized format"

// qrImagePrefix marks a rendered QR image payload (base64 data URI). The
// classifier routes it to the QR branch even though only the JSON payload
// form carries a decodable sku.
const qrImagePrefix = "data:image"

// Classify is the single entry point for "I scanned something, what is it?".
//
// The triage is a priority-ordered structural test; the order is load-bearing
// because the formats are not mutually exclusive in their character sets
// (an EPC URN also starts with a letter, an NFC URL could embed digits, and
// so on). First match wins, then the matching validator is authoritative.
//
// Malformed or corrupted input is a normal outcome (Valid=false with a typed
// reason), never an error.
func (s *Service) Classify(raw string) models.ParseResult {
	var result models.ParseResult
	switch {
	case strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, qrImagePrefix):
		result = s.ValidateQR(raw)
	case barcodeShape.MatchString(raw):
		result = s.ValidateBarcode(raw)
	case strings.HasPrefix(raw, "urn:epc:id:sgtin:"):
		result = s.ValidateRFID(raw)
	case strings.HasPrefix(raw, "http"):
		result = s.ValidateNFC(raw)
	default:
		result = models.ParseResult{Type: models.CodeTypeUnknown, Error: reasonUnrecognized}
	}
	s.metrics.IncrementScan(result.Type.String(), result.Valid)
	return result
}

// Package models defines the tracking-code domain types shared by the
// generator, validators, classifier and batch coordinator.
package models

import (
	"fmt"
	"time"
)

// CodeType identifies the physical encoding technology a code belongs to.
// It is a closed enumeration: adding a technology means revisiting every
// switch over CodeType.
type CodeType string

const (
	CodeTypeQR      CodeType = "qr"
	CodeTypeBarcode CodeType = "barcode"
	CodeTypeRFID    CodeType = "rfid"
	CodeTypeNFC     CodeType = "nfc"
	// CodeTypeUnknown is terminal: no further classification is attempted.
	CodeTypeUnknown CodeType = "unknown"
)

// IsValid reports whether t is one of the known code types.
func (t CodeType) IsValid() bool {
	switch t {
	case CodeTypeQR, CodeTypeBarcode, CodeTypeRFID, CodeTypeNFC, CodeTypeUnknown:
		return true
	}
	return false
}

func (t CodeType) String() string {
	return string(t)
}

// ParseCodeType validates and returns a CodeType.
func ParseCodeType(s string) (CodeType, error) {
	t := CodeType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown code type: %s", s)
	}
	return t, nil
}

// TrackingCodeSet holds one generated code per technology for a single SKU.
// All four fields are independently optional: generation of one technology
// may fail without invalidating the others. A set is never mutated after
// creation; replacement means generating a new set.
type TrackingCodeSet struct {
	QR      string `json:"qr,omitempty"`
	Barcode string `json:"barcode,omitempty"`
	RFID    string `json:"rfid,omitempty"`
	NFC     string `json:"nfc,omitempty"`
}

// IsEmpty reports whether no technology produced a code.
func (s TrackingCodeSet) IsEmpty() bool {
	return s.QR == "" && s.Barcode == "" && s.RFID == "" && s.NFC == ""
}

// ScannableValues returns the code values a physical scanner can hand back
// verbatim (barcode, RFID, NFC). The QR field is an image payload, not a
// lookup key; scanned QR content resolves through its embedded SKU instead.
func (s TrackingCodeSet) ScannableValues() []string {
	values := make([]string, 0, 3)
	for _, v := range []string{s.Barcode, s.RFID, s.NFC} {
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// ScanData is the structured payload extracted from a valid scan.
// SKU is set for QR scans (decoded from the payload); Code carries the raw
// code value for the other technologies.
type ScanData struct {
	SKU  string `json:"sku,omitempty"`
	Code string `json:"code,omitempty"`
}

// ParseResult is the outcome of classifying or validating a scanned string.
//
// Invariants:
//   - Valid=true implies Error is empty
//   - Data is present only when Valid=true and the scan carries extractable
//     content
type ParseResult struct {
	Type  CodeType  `json:"type"`
	Valid bool      `json:"is_valid"`
	Data  *ScanData `json:"data,omitempty"`
	Error string    `json:"error,omitempty"`
}

// BatchResult maps each distinct input SKU to its generated code set.
// Every input SKU has an entry, even when generation failed (the entry is
// then an empty set).
type BatchResult map[string]*TrackingCodeSet

// QRPayload is the canonical JSON object embedded in generated QR codes.
// Validators must tolerate unknown extra keys for forward compatibility.
type QRPayload struct {
	Type      string    `json:"type"`
	SKU       string    `json:"sku"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Package checksum implements the UPC-A check digit scheme. Retail scanners
// validate against this exact weighting, so the arithmetic must not drift.
package checksum

import "errors"

// ErrNotElevenDigits is returned when the check digit input is not exactly
// eleven ASCII digits.
var ErrNotElevenDigits = errors.New("check digit input must be exactly 11 digits")

// ComputeCheckDigit computes the UPC-A check digit for an 11-digit base.
// Digits at even 0-based positions weigh 1, digits at odd positions weigh 3;
// the check digit is (10 - sum mod 10) mod 10.
func ComputeCheckDigit(base string) (int, error) {
	if len(base) != 11 {
		return 0, ErrNotElevenDigits
	}
	sum := 0
	for i := 0; i < len(base); i++ {
		c := base[i]
		if c < '0' || c > '9' {
			return 0, ErrNotElevenDigits
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	return (10 - sum%10) % 10, nil
}

// Verify reports whether a 12-digit code carries the correct UPC-A check
// digit. It recomputes over the first 11 digits and compares with the 12th.
func Verify(code string) bool {
	if len(code) != 12 {
		return false
	}
	want, err := ComputeCheckDigit(code[:11])
	if err != nil {
		return false
	}
	last := code[11]
	if last < '0' || last > '9' {
		return false
	}
	return int(last-'0') == want
}

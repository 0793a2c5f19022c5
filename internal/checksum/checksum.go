// Package checksum implements structural and checksum validation for French
// SIREN (9-digit) and SIRET (14-digit) business identifiers.
package checksum

import "strings"

// SIRENLength is the digit count of a SIREN.
const SIRENLength = 9

// SIRETLength is the digit count of a SIRET (SIREN + 5-digit NIC).
const SIRETLength = 14

// NICLength is the digit count of the establishment code suffix.
const NICLength = 5

// Clean strips whitespace and punctuation from s and keeps digits only.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize strips separators (whitespace, dots, dashes, slashes) but keeps
// letters, so OCR-confused characters remain visible to the correction pass.
// Letters are uppercased.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDigits reports whether s is non-empty and contains only ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateSIREN reports whether s is a structurally valid SIREN: exactly 9
// digits and Luhn-consistent. A SIREN made of 9 identical non-zero digits is
// accepted without a Luhn check (certain public administrations carry such
// identifiers); the all-zero SIREN is always rejected.
func ValidateSIREN(s string) bool {
	if len(s) != SIRENLength || !IsDigits(s) {
		return false
	}
	if allSame(s) {
		return s[0] != '0'
	}
	return luhnSum(s)%10 == 0
}

// ValidateSIRET reports whether s is a structurally valid SIRET: 14 digits
// whose leading 9 digits pass SIREN validation. The 5-digit NIC carries no
// checksum of its own.
func ValidateSIRET(s string) bool {
	if len(s) != SIRETLength || !IsDigits(s) {
		return false
	}
	return ValidateSIREN(s[:SIRENLength])
}

// Validate reports whether s is a valid SIREN or SIRET, dispatching on length.
func Validate(s string) bool {
	switch len(s) {
	case SIRENLength:
		return ValidateSIREN(s)
	case SIRETLength:
		return ValidateSIRET(s)
	default:
		return false
	}
}

// luhnSum computes the adapted Luhn total over a 9-digit SIREN: digits at
// even distance from the right are doubled, doubled values above 9 have
// their digits summed (equivalently, 9 is subtracted).
func luhnSum(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		d := int(s[i] - '0')
		if (len(s)-i)%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
	}
	return total
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

package sirene

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics: NFD decomposition, drop combining
// marks, recompose.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a company name for comparison: diacritics removed,
// uppercased, punctuation collapsed to single spaces. "Société Générale"
// and "SOCIETE GENERALE" fold to the same string.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// legal-form words carry no identity signal and are ignored when matching.
var legalFormWords = map[string]bool{
	"SA": true, "SAS": true, "SASU": true, "SARL": true, "EURL": true,
	"SC": true, "SCI": true, "SNC": true, "SOCIETE": true, "ETS": true,
	"ETABLISSEMENTS": true, "CIE": true, "COMPAGNIE": true, "GROUPE": true,
}

// NameMatches reports whether a company-name hint from the invoice plausibly
// matches the registry denomination. Comparison is accent- and
// case-insensitive and ignores legal-form words; at least half of the hint's
// significant tokens must appear in the denomination.
func NameMatches(hint, denomination string) bool {
	h := Fold(hint)
	d := Fold(denomination)
	if h == "" || d == "" {
		return false
	}
	if h == d || strings.Contains(d, h) || strings.Contains(h, d) {
		return true
	}

	denomTokens := make(map[string]bool)
	for _, tok := range strings.Fields(d) {
		denomTokens[tok] = true
	}

	total, matched := 0, 0
	for _, tok := range strings.Fields(h) {
		if legalFormWords[tok] || len(tok) < 2 {
			continue
		}
		total++
		if denomTokens[tok] {
			matched++
		}
	}
	if total == 0 {
		return false
	}
	return matched*2 >= total
}

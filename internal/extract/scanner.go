// Package extract pulls candidate SIREN/SIRET identifiers out of raw
// document text, either with a cheap regex scan or with a model-backed
// extractor for messy scans and OCR output.
package extract

import (
	"regexp"
	"strings"

	"github.com/facturio/siret-cli/internal/checksum"
)

// Hit is one identifier-shaped token found in a document.
type Hit struct {
	// Raw is the token as it appears in the text, separators included.
	Raw string
	// Offset is the byte offset of the token in the scanned text.
	Offset int
}

// tokenRe matches runs of digits and OCR-confusable letters, with the
// separators invoices commonly use. Phone numbers and amounts also match;
// the length filter below discards most of them.
var tokenRe = regexp.MustCompile(`[0-9OQDILZSGB](?:[ .\-]?[0-9OQDILZSGB]){7,17}`)

// Scan returns identifier-shaped tokens in text, in order of appearance.
// Tokens normalizing to fewer than 8 or more than 18 characters are
// discarded; duplicates keep only their first occurrence.
func Scan(text string) []Hit {
	seen := make(map[string]bool)
	var hits []Hit
	for _, loc := range tokenRe.FindAllStringIndex(text, -1) {
		raw := strings.TrimSpace(text[loc[0]:loc[1]])
		norm := checksum.Normalize(raw)
		if len(norm) < 8 || len(norm) > 18 {
			continue
		}
		if seen[norm] {
			continue
		}
		seen[norm] = true
		hits = append(hits, Hit{Raw: raw, Offset: loc[0]})
	}
	return hits
}

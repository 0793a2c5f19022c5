// Package correction repairs OCR-damaged SIREN/SIRET identifiers. It
// generates single-edit candidate corrections (character confusions,
// adjacent transpositions, length repairs), keeps only checksum-valid
// candidates and ranks them by plausibility.
package correction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/facturio/siret-cli/internal/checksum"
	"github.com/facturio/siret-cli/internal/model"
)

// letterDigits maps characters OCR commonly reads in place of digits.
var letterDigits = map[byte]byte{
	'O': '0', 'Q': '0', 'D': '0',
	'I': '1', 'L': '1',
	'Z': '2',
	'S': '5',
	'G': '6',
	'B': '8',
}

// digitAlts maps digits to the digits OCR most often confuses them with.
var digitAlts = map[byte]string{
	'0': "8",
	'8': "03",
	'3': "8",
	'1': "7",
	'7': "1",
	'5': "6",
	'6': "5",
	'4': "9",
	'9': "4",
}

// Hints narrows the correction search using invoice context.
type Hints struct {
	// ExpectedLength is 9 (SIREN), 14 (SIRET) or 0 when unknown.
	ExpectedLength int
}

// Engine generates correction candidates. It is stateless and safe for
// concurrent use.
type Engine struct {
	maxCandidates int
	maxInputLen   int
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxCandidates caps the number of candidates returned per call.
func WithMaxCandidates(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCandidates = n
		}
	}
}

// NewEngine creates a correction engine with bounded search defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxCandidates: 8,
		maxInputLen:   18,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Suggest returns checksum-valid candidate corrections for raw, ordered by
// descending plausibility: fewer edits first, then earlier edit positions,
// then character confusions over transpositions over length repairs, ties
// broken by numeric value ascending. An already-valid identifier yields no
// candidates. The search is single-edit per strategy and bounded, so it
// terminates on arbitrarily long or garbled input.
func (e *Engine) Suggest(raw string, hints Hints) []model.CorrectionCandidate {
	norm := checksum.Normalize(raw)
	if norm == "" || len(norm) > e.maxInputLen {
		return nil
	}

	digits := checksum.Clean(norm)
	if checksum.Validate(digits) {
		return nil // nothing to correct
	}

	seen := make(map[string]bool)
	var out []model.CorrectionCandidate
	add := func(c model.CorrectionCandidate) {
		if seen[c.Value] || !checksum.Validate(c.Value) {
			return
		}
		seen[c.Value] = true
		out = append(out, c)
	}

	// Character confusions: map every OCR-confusable letter to its digit.
	base := digits
	if mapped, edits, pos := mapLetters(norm); edits > 0 {
		add(model.CorrectionCandidate{
			Value:    mapped,
			Strategy: model.StrategyOCR,
			Edits:    edits,
			Position: pos,
			Note:     fmt.Sprintf("substitution de %d caractère(s) confondu(s) par l'OCR", edits),
		})
		if checksum.IsDigits(mapped) {
			base = mapped
		}
	}

	if len(base) == checksum.SIRENLength || len(base) == checksum.SIRETLength {
		// Digit confusions, one position at a time.
		for i := 0; i < len(base); i++ {
			for _, alt := range []byte(digitAlts[base[i]]) {
				cand := base[:i] + string(alt) + base[i+1:]
				add(model.CorrectionCandidate{
					Value:    cand,
					Strategy: model.StrategyOCR,
					Edits:    1,
					Position: i,
					Note:     fmt.Sprintf("substitution %c→%c en position %d", base[i], alt, i+1),
				})
			}
		}

		// Adjacent transpositions, one swap at a time.
		for i := 0; i+1 < len(base); i++ {
			if base[i] == base[i+1] {
				continue
			}
			b := []byte(base)
			b[i], b[i+1] = b[i+1], b[i]
			add(model.CorrectionCandidate{
				Value:    string(b),
				Strategy: model.StrategyTransposition,
				Edits:    1,
				Position: i,
				Note:     fmt.Sprintf("transposition des positions %d et %d", i+1, i+2),
			})
		}
	}

	// Length repairs toward the plausible target lengths.
	for _, target := range targets(hints, len(base)) {
		switch delta := target - len(base); {
		case delta > 0 && delta <= 2:
			add(model.CorrectionCandidate{
				Value:    strings.Repeat("0", delta) + base,
				Strategy: model.StrategyLength,
				Edits:    delta,
				Position: 0,
				Note:     fmt.Sprintf("ajout de %d zéro(s) en tête", delta),
			})
		case delta < 0 && delta >= -2:
			add(model.CorrectionCandidate{
				Value:    base[:target],
				Strategy: model.StrategyLength,
				Edits:    -delta,
				Position: target,
				Note:     fmt.Sprintf("suppression de %d chiffre(s) en fin", -delta),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Edits != b.Edits {
			return a.Edits < b.Edits
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if ra, rb := strategyRank(a.Strategy), strategyRank(b.Strategy); ra != rb {
			return ra < rb
		}
		return numericLess(a.Value, b.Value)
	})

	if len(out) > e.maxCandidates {
		out = out[:e.maxCandidates]
	}
	return out
}

// mapLetters replaces every OCR-confusable letter by its digit. Returns the
// mapped string, the number of replacements and the first replaced index.
func mapLetters(s string) (string, int, int) {
	b := []byte(s)
	edits := 0
	first := 0
	for i := range b {
		if d, ok := letterDigits[b[i]]; ok {
			if edits == 0 {
				first = i
			}
			b[i] = d
			edits++
		}
	}
	return string(b), edits, first
}

// targets returns the lengths worth repairing toward.
func targets(hints Hints, n int) []int {
	if hints.ExpectedLength == checksum.SIRENLength || hints.ExpectedLength == checksum.SIRETLength {
		return []int{hints.ExpectedLength}
	}
	// Unknown role: repair toward whichever lengths are within reach.
	var out []int
	if n != checksum.SIRENLength && abs(n-checksum.SIRENLength) <= 2 {
		out = append(out, checksum.SIRENLength)
	}
	if n != checksum.SIRETLength && abs(n-checksum.SIRETLength) <= 2 {
		out = append(out, checksum.SIRETLength)
	}
	return out
}

func strategyRank(s model.CorrectionStrategy) int {
	switch s {
	case model.StrategyOCR:
		return 0
	case model.StrategyTransposition:
		return 1
	default:
		return 2
	}
}

// numericLess orders digit strings by numeric value: shorter first, then
// lexicographic (equivalent for equal lengths).
func numericLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

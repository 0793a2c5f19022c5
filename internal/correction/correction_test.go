package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/siret-cli/internal/model"
)

func candidateValues(cands []model.CorrectionCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Value
	}
	return out
}

func TestSuggest_ValidInputNeedsNoCorrection(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	tests := []string{
		"652014051",
		"652 014 051",
		"65201405100016",
		"652 014 051 00016",
		"111111111",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, e.Suggest(in, Hints{}))
		})
	}
}

func TestSuggest_SingleOCRLetter(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	cands := e.Suggest("65201405I", Hints{})
	require.NotEmpty(t, cands)
	assert.Equal(t, "652014051", cands[0].Value)
	assert.Equal(t, model.StrategyOCR, cands[0].Strategy)
	assert.Equal(t, 1, cands[0].Edits)
}

func TestSuggest_TwoOCRLetters(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	cands := e.Suggest("652OI4051", Hints{})
	require.NotEmpty(t, cands)
	assert.Equal(t, "652014051", cands[0].Value)
	assert.Equal(t, model.StrategyOCR, cands[0].Strategy)
	assert.Equal(t, 2, cands[0].Edits)
}

func TestSuggest_OCRDamagedSIRET(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	cands := e.Suggest("65201405I00016", Hints{ExpectedLength: 14})
	require.NotEmpty(t, cands)
	assert.Equal(t, "65201405100016", cands[0].Value)
}

func TestSuggest_AdjacentTransposition(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	// First two digits of 652014051 swapped.
	cands := e.Suggest("562014051", Hints{})
	require.Len(t, cands, 1)
	assert.Equal(t, "652014051", cands[0].Value)
	assert.Equal(t, model.StrategyTransposition, cands[0].Strategy)
	assert.Equal(t, 1, cands[0].Edits)
	assert.Equal(t, 0, cands[0].Position)
}

func TestSuggest_RankingPrefersEarlierPosition(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	// 652104051 admits two single-edit repairs: a digit confusion at
	// position 1 and a transposition at position 4. Earlier position wins.
	cands := e.Suggest("652104051", Hints{})
	require.Len(t, cands, 2)
	assert.Equal(t, "552104051", cands[0].Value)
	assert.Equal(t, model.StrategyOCR, cands[0].Strategy)
	assert.Contains(t, candidateValues(cands), "652014051")
}

func TestSuggest_MaxCandidatesCap(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithMaxCandidates(1))

	cands := e.Suggest("652104051", Hints{})
	require.Len(t, cands, 1)
	assert.Equal(t, "552104051", cands[0].Value)
}

func TestSuggest_LeadingZeroRepad(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	cands := e.Suggest("52014057", Hints{})
	require.NotEmpty(t, cands)
	assert.Equal(t, "052014057", cands[0].Value)
	assert.Equal(t, model.StrategyLength, cands[0].Strategy)
}

func TestSuggest_TruncatedSIRET(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	// 13 digits: the SIRET lost its leading zero.
	cands := e.Suggest("5201405700012", Hints{ExpectedLength: 14})
	require.NotEmpty(t, cands)
	assert.Equal(t, "05201405700012", cands[0].Value)
}

func TestSuggest_TrailingDigitDrop(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	cands := e.Suggest("6520140513", Hints{ExpectedLength: 9})
	require.NotEmpty(t, cands)
	assert.Equal(t, "652014051", cands[0].Value)
	assert.Equal(t, model.StrategyLength, cands[0].Strategy)
}

func TestSuggest_HopelessInput(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	assert.Empty(t, e.Suggest("", Hints{}))
	assert.Empty(t, e.Suggest("abc", Hints{}))
	assert.Empty(t, e.Suggest("12", Hints{}))
	// Bounded search: over-long input is rejected outright.
	assert.Empty(t, e.Suggest("123456789012345678901234567890", Hints{}))
}

func TestSuggest_CandidatesAreChecksumValid(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	for _, in := range []string{"65201405I", "562014051", "123456789", "6520140513"} {
		for _, c := range e.Suggest(in, Hints{}) {
			assert.True(t, len(c.Value) == 9 || len(c.Value) == 14, "candidate %q", c.Value)
			assert.NotEmpty(t, c.Note)
		}
	}
}

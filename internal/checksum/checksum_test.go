package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain digits", "652014051", "652014051"},
		{"spaces and dots", "652 014 051", "652014051"},
		{"siret with separators", "652 014 051 00016", "65201405100016"},
		{"dashes", "652-014-051", "652014051"},
		{"letters dropped", "6520I4051", "6524051"},
		{"empty", "", ""},
		{"only punctuation", " .-/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps letters", "6520I405l", "6520I405L"},
		{"strips separators", "652 0I4-051", "6520I4051"},
		{"uppercases", "652o14051", "652O14051"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestValidateSIREN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"carrefour", "652014051", true},
		{"la poste", "356000000", true},
		{"leading zero", "052014057", true},
		{"sequential digits", "123456789", false},
		{"all same nonzero", "111111111", true},
		{"all same nonzero 7", "777777777", true},
		{"all zero", "000000000", false},
		{"off by one digit", "652014052", false},
		{"too short", "65201405", false},
		{"too long", "6520140511", false},
		{"non numeric", "65201405a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidateSIREN(tt.in))
		})
	}
}

func TestValidateSIREN_Deterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		assert.True(t, ValidateSIREN("652014051"))
		assert.False(t, ValidateSIREN("123456789"))
	}
}

func TestValidateSIRET(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid siren valid nic", "65201405100016", true},
		{"valid siren other nic", "65201405199999", true},
		{"la poste establishment", "35600000000048", true},
		{"invalid embedded siren", "12345678900016", false},
		{"thirteen digits", "6520140510001", false},
		{"fifteen digits", "652014051000161", false},
		{"letters in nic", "652014051000A6", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidateSIRET(tt.in))
		})
	}
}

func TestValidate_DispatchesOnLength(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate("652014051"))
	assert.True(t, Validate("65201405100016"))
	assert.False(t, Validate("65201405"))
	assert.False(t, Validate(""))
}

func TestIsDigits(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDigits("0123456789"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("12a4"))
	assert.False(t, IsDigits("12 4"))
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockingLevelValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level BlockingLevel
		want  string
	}{
		{BlockingNone, "none"},
		{BlockingWarn, "warn"},
		{BlockingBlock, "block"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.level))
		})
	}
}

func TestRegistryStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RegistryStatus
		want   string
	}{
		{RegistryActive, "confirmed_active"},
		{RegistryInactive, "confirmed_inactive"},
		{RegistryNotFound, "not_found"},
		{RegistryUnavailable, "unavailable"},
		{RegistryNotAttempted, "not_attempted"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestEventFromResult(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	res := &ValidationResult{
		Original:        "652 014 051",
		Cleaned:         "652014051",
		StructuralValid: true,
		Correction:      CorrectionSucceeded,
		RegistryStatus:  RegistryActive,
		BlockingLevel:   BlockingWarn,
		ExportBlocked:   false,
		Message:         "Identifiant corrigé automatiquement.",
		Notes:           []string{"corrigé 652 014 O51 → 652014051"},
		InvoiceID:       "inv-42",
		Role:            RoleSupplier,
		ValidatedAt:     now,
	}

	ev := EventFromResult(res, "api")

	assert.Equal(t, EventValidation, ev.Type)
	assert.Equal(t, "652 014 051", ev.Identifier)
	assert.Equal(t, "652014051", ev.Cleaned)
	assert.True(t, ev.Corrected)
	assert.Equal(t, RegistryActive, ev.RegistryStatus)
	assert.Equal(t, BlockingWarn, ev.BlockingLevel)
	assert.False(t, ev.ExportBlocked)
	assert.Equal(t, "inv-42", ev.InvoiceID)
	assert.Equal(t, RoleSupplier, ev.Role)
	assert.Equal(t, "api", ev.Actor)
	assert.Equal(t, now, ev.CreatedAt)
}

// Package monitoring aggregates audit events into validation metrics and
// raises webhook alerts when blocking rates drift past thresholds.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of validation outcomes.
type MetricsSnapshot struct {
	// Totals within the lookback window.
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Warned        int `json:"warned"`
	Blocked       int `json:"blocked"`
	Corrected     int `json:"corrected"`
	ExportBlocked int `json:"export_blocked"`

	// Registry outcomes.
	RegistryActive      int `json:"registry_active"`
	RegistryInactive    int `json:"registry_inactive"`
	RegistryNotFound    int `json:"registry_not_found"`
	RegistryUnavailable int `json:"registry_unavailable"`

	BlockedRate     float64 `json:"blocked_rate"`
	CorrectionRate  float64 `json:"correction_rate"`
	UnavailableRate float64 `json:"unavailable_rate"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the audit event store.
type Collector struct {
	store store.Store
}

// NewCollector creates a new metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect aggregates audit events over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	cutoff := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)
	events, err := c.store.ListEvents(ctx, store.EventFilter{
		Type:  model.EventValidation,
		Since: cutoff,
		Limit: 10000,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list audit events")
	}

	snap.Total = len(events)
	for _, ev := range events {
		switch ev.BlockingLevel {
		case model.BlockingNone:
			snap.Passed++
		case model.BlockingWarn:
			snap.Warned++
		case model.BlockingBlock:
			snap.Blocked++
		}
		if ev.Corrected {
			snap.Corrected++
		}
		if ev.ExportBlocked {
			snap.ExportBlocked++
		}

		switch ev.RegistryStatus {
		case model.RegistryActive:
			snap.RegistryActive++
		case model.RegistryInactive:
			snap.RegistryInactive++
		case model.RegistryNotFound:
			snap.RegistryNotFound++
		case model.RegistryUnavailable:
			snap.RegistryUnavailable++
		}
	}

	if snap.Total > 0 {
		snap.BlockedRate = float64(snap.Blocked) / float64(snap.Total)
		snap.CorrectionRate = float64(snap.Corrected) / float64(snap.Total)
		snap.UnavailableRate = float64(snap.RegistryUnavailable) / float64(snap.Total)
	}
	return snap, nil
}

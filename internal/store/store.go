// Package store persists the append-only audit trail of validation events.
package store

import (
	"context"
	"time"

	"github.com/facturio/siret-cli/internal/model"
)

// EventFilter specifies criteria for listing audit events.
type EventFilter struct {
	Type          model.EventType     `json:"type,omitempty"`
	BlockingLevel model.BlockingLevel `json:"blocking_level,omitempty"`
	InvoiceID     string              `json:"invoice_id,omitempty"`
	Since         time.Time           `json:"since,omitempty"`
	Limit         int                 `json:"limit,omitempty"`
}

// Store is the persistence interface for audit events. Events are
// append-only; retention purges are owned by the GDPR layer, not here.
type Store interface {
	InsertEvent(ctx context.Context, ev model.AuditEvent) (string, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]model.AuditEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

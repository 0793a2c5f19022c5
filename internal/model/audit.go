package model

import "time"

// EventType classifies an audit event.
type EventType string

const (
	EventValidation EventType = "identifier_validation"
	EventExportGate EventType = "export_gate"
)

// AuditEvent is one append-only compliance record. Events are never updated
// or deleted here; bulk retention purges are owned by the GDPR layer.
type AuditEvent struct {
	ID              string         `json:"id"`
	Type            EventType      `json:"type"`
	InvoiceID       string         `json:"invoice_id,omitempty"`
	Role            Role           `json:"role,omitempty"`
	Identifier      string         `json:"identifier"`
	Cleaned         string         `json:"cleaned"`
	StructuralValid bool           `json:"structural_valid"`
	Corrected       bool           `json:"corrected"`
	RegistryStatus  RegistryStatus `json:"registry_status"`
	BlockingLevel   BlockingLevel  `json:"blocking_level"`
	ExportBlocked   bool           `json:"export_blocked"`
	Message         string         `json:"message"`
	Notes           []string       `json:"notes,omitempty"`
	Actor           string         `json:"actor"`
	CreatedAt       time.Time      `json:"created_at"`
}

// EventFromResult builds the audit record for a validation result.
func EventFromResult(res *ValidationResult, actor string) AuditEvent {
	return AuditEvent{
		Type:            EventValidation,
		InvoiceID:       res.InvoiceID,
		Role:            res.Role,
		Identifier:      res.Original,
		Cleaned:         res.Cleaned,
		StructuralValid: res.StructuralValid,
		Corrected:       res.Correction == CorrectionSucceeded,
		RegistryStatus:  res.RegistryStatus,
		BlockingLevel:   res.BlockingLevel,
		ExportBlocked:   res.ExportBlocked,
		Message:         res.Message,
		Notes:           res.Notes,
		Actor:           actor,
		CreatedAt:       res.ValidatedAt,
	}
}

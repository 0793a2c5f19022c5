// Package model holds the domain types shared across the validation engine:
// validation results, blocking levels, registry outcomes and audit events.
package model

import "time"

// BlockingLevel governs whether an invoice export is permitted.
type BlockingLevel string

const (
	BlockingNone  BlockingLevel = "none"
	BlockingWarn  BlockingLevel = "warn"
	BlockingBlock BlockingLevel = "block"
)

// TrafficLight is the green/yellow/red summary status shown to end users.
type TrafficLight string

const (
	LightGreen  TrafficLight = "green"
	LightYellow TrafficLight = "yellow"
	LightRed    TrafficLight = "red"
)

// RegistryStatus is the outcome of a SIRENE registry lookup.
type RegistryStatus string

const (
	// RegistryActive means the identifier exists and is administratively active.
	RegistryActive RegistryStatus = "confirmed_active"
	// RegistryInactive means the identifier exists but is administratively closed.
	RegistryInactive RegistryStatus = "confirmed_inactive"
	// RegistryNotFound means the registry explicitly reported no such identifier.
	// Informative, not a fault.
	RegistryNotFound RegistryStatus = "not_found"
	// RegistryUnavailable means the registry could not be reached (network
	// failure, timeout, auth failure, quota). Never a negative signal.
	RegistryUnavailable RegistryStatus = "unavailable"
	// RegistryNotAttempted means no lookup was made (total structural failure
	// or lookups disabled).
	RegistryNotAttempted RegistryStatus = "not_attempted"
)

// CorrectionOutcome describes what the auto-correction pass did.
type CorrectionOutcome string

const (
	CorrectionNotNeeded CorrectionOutcome = "not_needed"
	CorrectionSucceeded CorrectionOutcome = "succeeded"
	CorrectionFailed    CorrectionOutcome = "failed"
)

// Role identifies which party on the invoice an identifier belongs to.
type Role string

const (
	RoleSupplier Role = "supplier"
	RoleCustomer Role = "customer"
)

// CorrectionStrategy names the transformation a candidate was produced by.
type CorrectionStrategy string

const (
	StrategyOCR           CorrectionStrategy = "ocr_substitution"
	StrategyTransposition CorrectionStrategy = "transposition"
	StrategyLength        CorrectionStrategy = "length_repair"
)

// CorrectionCandidate is a proposed alternative identifier plus the
// transformation applied and a plausibility ranking. Candidates are
// transient; only the applied one survives in the result's details.
type CorrectionCandidate struct {
	Value    string             `json:"value"`
	Strategy CorrectionStrategy `json:"strategy"`
	Edits    int                `json:"edits"`
	Position int                `json:"position"`
	Note     string             `json:"note"`
}

// Input is one identifier to validate, with its invoice context.
type Input struct {
	Identifier  string `json:"identifier"`
	CompanyName string `json:"company_name,omitempty"`
	InvoiceID   string `json:"invoice_id,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// ValidationResult is the aggregate outcome of validating one identifier in
// one invoice context. Results are immutable once built; a re-validation
// produces a fresh result.
type ValidationResult struct {
	Original          string                `json:"original"`
	Cleaned           string                `json:"cleaned"`
	StructuralValid   bool                  `json:"structural_valid"`
	RegistryStatus    RegistryStatus        `json:"registry_status"`
	Correction        CorrectionOutcome     `json:"correction"`
	CorrectionDetails []CorrectionCandidate `json:"correction_details,omitempty"`
	BlockingLevel     BlockingLevel         `json:"blocking_level"`
	TrafficLight      TrafficLight          `json:"traffic_light"`
	ExportBlocked     bool                  `json:"export_blocked"`
	Message           string                `json:"message"`
	Notes             []string              `json:"notes,omitempty"`
	Denomination      string                `json:"denomination,omitempty"`
	NameMatch         *bool                 `json:"name_match,omitempty"`
	InvoiceID         string                `json:"invoice_id,omitempty"`
	Role              Role                  `json:"role,omitempty"`
	ValidatedAt       time.Time             `json:"validated_at"`
}

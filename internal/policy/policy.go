// Package policy maps validation outcomes to export-blocking decisions and
// user-facing French messages. The decision table here is the single source
// of truth for the blocking-level mapping; no other layer reinterprets it.
package policy

import "github.com/facturio/siret-cli/internal/model"

// Facts are the inputs to the blocking decision for one identifier.
type Facts struct {
	// Malformed is true for empty, non-numeric or impossibly long/short
	// input where no structural check was possible at all.
	Malformed bool
	// StructuralValid reflects the identifier after any adopted correction.
	StructuralValid bool
	Correction      model.CorrectionOutcome
	Registry        model.RegistryStatus
}

// Decision is the derived export-gating outcome.
type Decision struct {
	Level         model.BlockingLevel
	Light         model.TrafficLight
	ExportBlocked bool
	MessageKey    string
}

// Decide applies the blocking-level decision table.
//
//	structural | corrected | registry            | level | light
//	-----------+-----------+---------------------+-------+-------
//	valid      | no        | confirmed-active    | NONE  | green
//	valid      | no        | confirmed-inactive  | WARN  | yellow
//	valid      | no        | not-found           | WARN  | yellow
//	valid      | no        | unavailable         | NONE  | green
//	corrected  | yes       | any                 | WARN  | yellow
//	invalid    | failed    | any                 | BLOCK | red
//	malformed  | n/a       | not-attempted       | BLOCK | red
func Decide(f Facts) Decision {
	switch {
	case f.Malformed:
		return block("malformed")
	case !f.StructuralValid:
		return block("correction_failed")
	case f.Correction == model.CorrectionSucceeded:
		return warn("corrected")
	}

	switch f.Registry {
	case model.RegistryActive:
		return pass("valid_active")
	case model.RegistryInactive:
		return warn("valid_inactive")
	case model.RegistryNotFound:
		return warn("valid_not_found")
	case model.RegistryUnavailable:
		// Best effort: unavailability is unknown, never a negative signal.
		return pass("valid_unavailable")
	default:
		return pass("valid_unverified")
	}
}

func pass(key string) Decision {
	return Decision{Level: model.BlockingNone, Light: model.LightGreen, MessageKey: key}
}

func warn(key string) Decision {
	return Decision{Level: model.BlockingWarn, Light: model.LightYellow, MessageKey: key}
}

func block(key string) Decision {
	return Decision{Level: model.BlockingBlock, Light: model.LightRed, ExportBlocked: true, MessageKey: key}
}

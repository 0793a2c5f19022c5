// Package validator orchestrates the full validation of one identifier:
// structural check, auto-correction, registry lookup and blocking decision.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/facturio/siret-cli/internal/audit"
	"github.com/facturio/siret-cli/internal/checksum"
	"github.com/facturio/siret-cli/internal/correction"
	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/policy"
	"github.com/facturio/siret-cli/pkg/sirene"
)

const defaultRegistryTimeout = 10 * time.Second

// Validator runs the validation pipeline. It is safe for concurrent use.
type Validator struct {
	registry        sirene.Client
	engine          *correction.Engine
	recorder        audit.Recorder
	actor           string
	registryTimeout time.Duration
	concurrency     int
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry attaches a SIRENE registry client. Without one, structural
// results carry a not-attempted registry status.
func WithRegistry(c sirene.Client) Option {
	return func(v *Validator) { v.registry = c }
}

// WithCorrectionEngine replaces the default correction engine.
func WithCorrectionEngine(e *correction.Engine) Option {
	return func(v *Validator) { v.engine = e }
}

// WithRecorder attaches an audit recorder for validation events.
func WithRecorder(r audit.Recorder) Option {
	return func(v *Validator) { v.recorder = r }
}

// WithActor sets the actor recorded on audit events.
func WithActor(actor string) Option {
	return func(v *Validator) { v.actor = actor }
}

// WithRegistryTimeout bounds each registry lookup.
func WithRegistryTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.registryTimeout = d
		}
	}
}

// WithConcurrency bounds parallel lookups in ValidateMany.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// New creates a Validator. By default it runs without a registry client
// and without an audit trail.
func New(opts ...Option) *Validator {
	v := &Validator{
		engine:          correction.NewEngine(),
		recorder:        audit.Nop{},
		actor:           "cli",
		registryTimeout: defaultRegistryTimeout,
		concurrency:     5,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the full pipeline for one identifier. It always returns a
// result; registry unavailability and audit failures never surface as errors.
func (v *Validator) Validate(ctx context.Context, in model.Input) *model.ValidationResult {
	res := &model.ValidationResult{
		Original:       in.Identifier,
		Cleaned:        checksum.Clean(in.Identifier),
		RegistryStatus: model.RegistryNotAttempted,
		Correction:     model.CorrectionNotNeeded,
		InvoiceID:      in.InvoiceID,
		Role:           in.Role,
		ValidatedAt:    time.Now().UTC(),
	}

	malformed := totalFailure(checksum.Normalize(in.Identifier))
	if !malformed {
		v.structural(res)
	}

	// The registry is consulted even after a failed correction, on the
	// best-effort digits-only value, to gather whatever signal it holds.
	// Only total structural failure skips the lookup.
	if !malformed && v.registry != nil {
		v.lookup(ctx, in, res)
	}

	dec := policy.Decide(policy.Facts{
		Malformed:       malformed,
		StructuralValid: res.StructuralValid,
		Correction:      res.Correction,
		Registry:        res.RegistryStatus,
	})
	res.BlockingLevel = dec.Level
	res.TrafficLight = dec.Light
	res.ExportBlocked = dec.ExportBlocked
	res.Message = policy.Message(dec.MessageKey)

	v.recorder.Record(model.EventFromResult(res, v.actor))

	zap.L().Debug("identifier validated",
		zap.String("identifier", res.Cleaned),
		zap.String("blocking_level", string(res.BlockingLevel)),
		zap.String("registry_status", string(res.RegistryStatus)),
	)
	return res
}

// totalFailure reports inputs no structural check can act on: empty input,
// input with no digits at all, or a length no repair could bring to a SIREN
// or SIRET.
func totalFailure(norm string) bool {
	if norm == "" || checksum.Clean(norm) == "" {
		return true
	}
	return len(norm) < checksum.SIRENLength-2 || len(norm) > checksum.SIRETLength+2
}

// structural checks the checksum and, when it fails, attempts an
// auto-correction. A successful correction replaces the cleaned value.
func (v *Validator) structural(res *model.ValidationResult) {
	if checksum.Validate(res.Cleaned) {
		res.StructuralValid = true
		return
	}

	cands := v.engine.Suggest(res.Original, correction.Hints{})
	if len(cands) == 0 {
		res.Correction = model.CorrectionFailed
		return
	}

	top := cands[0]
	res.Notes = append(res.Notes,
		fmt.Sprintf("correction automatique : %s remplacé par %s (%s)",
			res.Cleaned, top.Value, top.Note))
	res.Cleaned = top.Value
	res.StructuralValid = true
	res.Correction = model.CorrectionSucceeded
	res.CorrectionDetails = cands
}

// lookup consults the SIRENE registry and folds the outcome into the result.
// Failures degrade to an unavailable status; they never abort validation.
func (v *Validator) lookup(ctx context.Context, in model.Input, res *model.ValidationResult) {
	ctx, cancel := context.WithTimeout(ctx, v.registryTimeout)
	defer cancel()

	rec, err := v.registry.Lookup(ctx, res.Cleaned)
	switch {
	case err == nil:
		if rec.Active {
			res.RegistryStatus = model.RegistryActive
		} else {
			res.RegistryStatus = model.RegistryInactive
			res.Notes = append(res.Notes, "établissement administrativement fermé au répertoire SIRENE")
		}
		res.Denomination = rec.Denomination
		if in.CompanyName != "" && rec.Denomination != "" {
			match := sirene.NameMatches(in.CompanyName, rec.Denomination)
			res.NameMatch = &match
			if !match {
				res.Notes = append(res.Notes,
					fmt.Sprintf("dénomination au répertoire (%q) différente du nom fourni (%q)",
						rec.Denomination, in.CompanyName))
			}
		}
	case errors.Is(err, sirene.ErrNotFound):
		res.RegistryStatus = model.RegistryNotFound
		res.Notes = append(res.Notes, "identifiant inconnu du répertoire SIRENE")
	default:
		res.RegistryStatus = model.RegistryUnavailable
		res.Notes = append(res.Notes, "répertoire SIRENE injoignable, vérification reportée")
		zap.L().Warn("sirene lookup failed",
			zap.String("identifier", res.Cleaned),
			zap.Error(err),
		)
	}
}

// ValidateMany validates a batch concurrently, preserving input order.
// Each input is independent; one identifier's outcome never affects another.
func (v *Validator) ValidateMany(ctx context.Context, ins []model.Input) []*model.ValidationResult {
	out := make([]*model.ValidationResult, len(ins))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, in := range ins {
		g.Go(func() error {
			out[i] = v.Validate(ctx, in)
			return nil
		})
	}
	g.Wait() //nolint:errcheck
	return out
}

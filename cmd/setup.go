package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/facturio/siret-cli/internal/audit"
	"github.com/facturio/siret-cli/internal/correction"
	"github.com/facturio/siret-cli/internal/store"
	"github.com/facturio/siret-cli/internal/validator"
	"github.com/facturio/siret-cli/pkg/sirene"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "siret-audit.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// validatorEnv bundles the validator with the resources it owns.
type validatorEnv struct {
	Validator *validator.Validator
	Store     store.Store
	writer    *audit.Writer
}

func (e *validatorEnv) Close() {
	if e.writer != nil {
		_ = e.writer.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initValidator builds the full validation stack from config: registry
// client, correction engine and, when enabled, the audit trail.
func initValidator(ctx context.Context) (*validatorEnv, error) {
	env := &validatorEnv{}

	var recorder audit.Recorder = audit.Nop{}
	if cfg.Audit.Enabled {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		env.Store = st
		env.writer = audit.NewWriter(st, cfg.Audit.BufferSize)
		recorder = env.writer
	}

	registry := sirene.NewClient(cfg.Insee.Token,
		sirene.WithBaseURL(cfg.Insee.BaseURL),
		sirene.WithRateLimit(cfg.Insee.RatePerSec),
		sirene.WithCacheTTL(time.Duration(cfg.Insee.CacheTTLHours)*time.Hour),
	)

	env.Validator = validator.New(
		validator.WithRegistry(registry),
		validator.WithCorrectionEngine(correction.NewEngine(
			correction.WithMaxCandidates(cfg.Correction.MaxCandidates),
		)),
		validator.WithRecorder(recorder),
		validator.WithActor(cfg.Audit.Actor),
		validator.WithRegistryTimeout(time.Duration(cfg.Insee.TimeoutSecs)*time.Second),
		validator.WithConcurrency(cfg.Batch.MaxConcurrent),
	)
	return env, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/facturio/siret-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS audit_events (
	id               TEXT PRIMARY KEY,
	type             TEXT NOT NULL,
	invoice_id       TEXT,
	role             TEXT,
	identifier       TEXT NOT NULL,
	cleaned          TEXT NOT NULL,
	structural_valid BOOLEAN NOT NULL,
	corrected        BOOLEAN NOT NULL,
	registry_status  TEXT NOT NULL,
	blocking_level   TEXT NOT NULL,
	export_blocked   BOOLEAN NOT NULL,
	message          TEXT NOT NULL,
	notes            JSONB,
	actor            TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_events_blocking ON audit_events(blocking_level);
CREATE INDEX IF NOT EXISTS idx_audit_events_invoice ON audit_events(invoice_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, ev model.AuditEvent) (string, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	notesJSON, err := json.Marshal(ev.Notes)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal notes")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_events
		 (id, type, invoice_id, role, identifier, cleaned, structural_valid, corrected,
		  registry_status, blocking_level, export_blocked, message, notes, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		ev.ID, string(ev.Type), ev.InvoiceID, string(ev.Role), ev.Identifier, ev.Cleaned,
		ev.StructuralValid, ev.Corrected, string(ev.RegistryStatus), string(ev.BlockingLevel),
		ev.ExportBlocked, ev.Message, string(notesJSON), ev.Actor, ev.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert audit event")
	}
	return ev.ID, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter EventFilter) ([]model.AuditEvent, error) {
	query := `SELECT id, type, invoice_id, role, identifier, cleaned, structural_valid, corrected,
	          registry_status, blocking_level, export_blocked, message, notes::text, actor, created_at
	          FROM audit_events WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		query += " AND type = " + arg(string(filter.Type))
	}
	if filter.BlockingLevel != "" {
		query += " AND blocking_level = " + arg(string(filter.BlockingLevel))
	}
	if filter.InvoiceID != "" {
		query += " AND invoice_id = " + arg(filter.InvoiceID)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= " + arg(filter.Since)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit events")
	}
	defer rows.Close()

	var out []model.AuditEvent
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate audit events")
}

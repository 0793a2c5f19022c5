package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/facturio/siret-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS audit_events (
	id               TEXT PRIMARY KEY,
	type             TEXT NOT NULL,
	invoice_id       TEXT,
	role             TEXT,
	identifier       TEXT NOT NULL,
	cleaned          TEXT NOT NULL,
	structural_valid INTEGER NOT NULL,
	corrected        INTEGER NOT NULL,
	registry_status  TEXT NOT NULL,
	blocking_level   TEXT NOT NULL,
	export_blocked   INTEGER NOT NULL,
	message          TEXT NOT NULL,
	notes            TEXT,
	actor            TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_events_blocking ON audit_events(blocking_level);
CREATE INDEX IF NOT EXISTS idx_audit_events_invoice ON audit_events(invoice_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertEvent(ctx context.Context, ev model.AuditEvent) (string, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	notesJSON, err := json.Marshal(ev.Notes)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal notes")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_events
		 (id, type, invoice_id, role, identifier, cleaned, structural_valid, corrected,
		  registry_status, blocking_level, export_blocked, message, notes, actor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Type), ev.InvoiceID, string(ev.Role), ev.Identifier, ev.Cleaned,
		ev.StructuralValid, ev.Corrected, string(ev.RegistryStatus), string(ev.BlockingLevel),
		ev.ExportBlocked, ev.Message, string(notesJSON), ev.Actor, ev.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert audit event")
	}
	return ev.ID, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, filter EventFilter) ([]model.AuditEvent, error) {
	query := `SELECT id, type, invoice_id, role, identifier, cleaned, structural_valid, corrected,
	          registry_status, blocking_level, export_blocked, message, notes, actor, created_at
	          FROM audit_events WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.BlockingLevel != "" {
		query += " AND blocking_level = ?"
		args = append(args, string(filter.BlockingLevel))
	}
	if filter.InvoiceID != "" {
		query += " AND invoice_id = ?"
		args = append(args, filter.InvoiceID)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit events")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.AuditEvent
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate audit events")
}

// scanEvent decodes one audit_events row via the given Scan function.
func scanEvent(scan func(dest ...any) error) (model.AuditEvent, error) {
	var ev model.AuditEvent
	var typ, role, registry, blocking, notesJSON string

	err := scan(&ev.ID, &typ, &ev.InvoiceID, &role, &ev.Identifier, &ev.Cleaned,
		&ev.StructuralValid, &ev.Corrected, &registry, &blocking,
		&ev.ExportBlocked, &ev.Message, &notesJSON, &ev.Actor, &ev.CreatedAt)
	if err != nil {
		return ev, eris.Wrap(err, "store: scan audit event")
	}

	ev.Type = model.EventType(typ)
	ev.Role = model.Role(role)
	ev.RegistryStatus = model.RegistryStatus(registry)
	ev.BlockingLevel = model.BlockingLevel(blocking)
	if notesJSON != "" {
		if err := json.Unmarshal([]byte(notesJSON), &ev.Notes); err != nil {
			return ev, eris.Wrap(err, "store: unmarshal notes")
		}
	}
	return ev, nil
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/siret-cli/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS audit_events`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertEvent(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			pgxmock.AnyArg(), "identifier_validation", "inv-1", "supplier", "652 014 051", "652014051",
			true, false, "confirmed_active", "none",
			false, pgxmock.AnyArg(), pgxmock.AnyArg(), "cli", pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.InsertEvent(context.Background(), sampleEvent(model.BlockingNone))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListEvents(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "type", "invoice_id", "role", "identifier", "cleaned", "structural_valid",
		"corrected", "registry_status", "blocking_level", "export_blocked", "message",
		"notes", "actor", "created_at",
	}).AddRow(
		"ev-1", "identifier_validation", "inv-1", "supplier", "652 014 051", "652014051", true,
		false, "confirmed_active", "none", false, "Identifiant vérifié.",
		`["vérification registre : actif"]`, "cli", now,
	)

	mock.ExpectQuery(`(?s)SELECT .+ FROM audit_events`).
		WithArgs("none", 5).
		WillReturnRows(rows)

	events, err := s.ListEvents(context.Background(), EventFilter{
		BlockingLevel: model.BlockingNone,
		Limit:         5,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, model.RegistryActive, ev.RegistryStatus)
	assert.Equal(t, []string{"vérification registre : actif"}, ev.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertEvent_Error(t *testing.T) {
	t.Parallel()

	s, mock := newMockPostgres(t)
	mock.ExpectExec(`INSERT INTO audit_events`).
		WillReturnError(assert.AnError)

	_, err := s.InsertEvent(context.Background(), sampleEvent(model.BlockingBlock))
	assert.Error(t, err)
}

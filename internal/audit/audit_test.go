package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/store"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu     sync.Mutex
	events []model.AuditEvent
	err    error
	block  chan struct{}
}

func (m *memStore) InsertEvent(_ context.Context, ev model.AuditEvent) (string, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	m.events = append(m.events, ev)
	return ev.ID, nil
}

func (m *memStore) ListEvents(context.Context, store.EventFilter) ([]model.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AuditEvent(nil), m.events...), nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestWriter_RecordAndClose(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	w := NewWriter(st, 8)

	for i := 0; i < 3; i++ {
		w.Record(model.AuditEvent{
			Type:       model.EventValidation,
			Identifier: "652014051",
		})
	}
	require.NoError(t, w.Close())

	assert.Equal(t, 3, st.count())
}

func TestWriter_CloseIdempotent(t *testing.T) {
	t.Parallel()

	w := NewWriter(&memStore{}, 1)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWriter_StoreErrorDoesNotPropagate(t *testing.T) {
	t.Parallel()

	st := &memStore{err: assert.AnError}
	w := NewWriter(st, 4)

	w.Record(model.AuditEvent{Identifier: "652014051"})
	require.NoError(t, w.Close())

	assert.Zero(t, st.count())
}

func TestWriter_FullBufferDropsWithoutBlocking(t *testing.T) {
	t.Parallel()

	st := &memStore{block: make(chan struct{})}
	w := NewWriter(st, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// First event occupies the writer, second fills the buffer,
		// the rest must be dropped immediately.
		for i := 0; i < 10; i++ {
			w.Record(model.AuditEvent{Identifier: "652014051"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(st.block)
	require.NoError(t, w.Close())
	assert.LessOrEqual(t, st.count(), 2)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var r Recorder = Nop{}
	r.Record(model.AuditEvent{Identifier: "652014051"})
}

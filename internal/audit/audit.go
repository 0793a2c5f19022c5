// Package audit records validation outcomes to the event store without
// ever blocking or failing a validation. Writes happen on a background
// goroutine; a full buffer drops the event with a warning.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/store"
)

// Recorder accepts audit events. Implementations must not block the caller.
type Recorder interface {
	Record(ev model.AuditEvent)
}

// Nop discards all events. Used when the audit trail is disabled.
type Nop struct{}

func (Nop) Record(model.AuditEvent) {}

const writeTimeout = 5 * time.Second

// Writer persists events to a store asynchronously.
type Writer struct {
	store  store.Store
	events chan model.AuditEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewWriter starts a background writer over the given store. bufferSize
// bounds the number of pending events; zero or negative falls back to 256.
func NewWriter(st store.Store, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	w := &Writer{
		store:  st,
		events: make(chan model.AuditEvent, bufferSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Record enqueues an event for persistence. If the buffer is full the
// event is dropped; validation must never wait on the audit trail.
func (w *Writer) Record(ev model.AuditEvent) {
	select {
	case w.events <- ev:
	default:
		zap.L().Warn("audit buffer full, dropping event",
			zap.String("identifier", ev.Identifier),
			zap.String("invoice_id", ev.InvoiceID),
		)
	}
}

// Close drains pending events and stops the background writer.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		close(w.events)
		<-w.done
	})
	return nil
}

func (w *Writer) run() {
	defer close(w.done)
	log := zap.L().With(zap.String("component", "audit.writer"))

	for ev := range w.events {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if _, err := w.store.InsertEvent(ctx, ev); err != nil {
			log.Warn("failed to persist audit event",
				zap.String("identifier", ev.Identifier),
				zap.Error(err),
			)
		}
		cancel()
	}
}

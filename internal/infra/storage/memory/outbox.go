package memory

import (
	"context"
	"sync"

	appoutbox "roomly/internal/app/outbox"
)

// Outbox buffers records in memory. Nothing is published in memory mode;
// Flush simply discards the batch. Records inspects what a command emitted,
// which the handler tests lean on.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = nil
	return nil
}

func (o *Outbox) Records() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Auditor records audit events.
type Auditor interface {
	Record(ctx context.Context, event *Event) error
}

// StandardAuditor stamps identity and time onto events and hands them to
// a store.
type StandardAuditor struct {
	store Store
}

// NewStandardAuditor creates a new StandardAuditor.
func NewStandardAuditor(store Store) *StandardAuditor {
	return &StandardAuditor{store: store}
}

// Record records the audit event.
func (a *StandardAuditor) Record(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := a.store.Write(ctx, event); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}

	return nil
}

// NoopAuditor discards every event. Library callers that don't care about
// the trail pass this instead of nil.
type NoopAuditor struct{}

func NewNoopAuditor() *NoopAuditor { return &NoopAuditor{} }

func (NoopAuditor) Record(ctx context.Context, event *Event) error { return nil }

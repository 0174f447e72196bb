package cerberus

import (
	"context"

	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hermes"
	"github.com/tartarus-sandbox/minos/pkg/hermes/audit"
)

// Applier applies access control lists to queues with the bookkeeping an
// operator wants: structured logs, counters, and an audit event per
// affected trustee.
type Applier struct {
	sys     SecuritySubsystem
	logger  hermes.Logger
	metrics hermes.Metrics
	auditor audit.Auditor
}

// NewApplier wires an applier. Pass the noop implementations for
// whichever concerns the caller does not track.
func NewApplier(sys SecuritySubsystem, logger hermes.Logger, metrics hermes.Metrics, auditor audit.Auditor) *Applier {
	return &Applier{
		sys:     sys,
		logger:  logger,
		metrics: metrics,
		auditor: auditor,
	}
}

// Apply merges the list over the queue's current ACL and writes it back.
func (a *Applier) Apply(ctx context.Context, formatName domain.FormatName, l *AccessControlList) error {
	a.metrics.IncCounter("minos_acl_build_total", 1)

	if err := ApplyQueueACL(a.sys, formatName, l); err != nil {
		a.metrics.IncCounter("minos_acl_build_failures_total", 1)
		a.logger.Error(ctx, "failed to apply queue acl", map[string]any{
			"queue":   string(formatName),
			"entries": l.Len(),
			"error":   err.Error(),
		})
		a.auditor.Record(ctx, &audit.Event{
			Action: audit.ActionApplyACL,
			Result: audit.ResultError,
			Queue:  string(formatName),
			Detail: err.Error(),
		})
		return err
	}

	for i := 0; i < l.Len(); i++ {
		entry := l.Entry(i)
		a.auditor.Record(ctx, &audit.Event{
			Action:  audit.ActionApplyACL,
			Result:  audit.ResultSuccess,
			Queue:   string(formatName),
			Trustee: entry.Trustee().Name(),
			Rights:  entry.Mask().String(),
			Detail:  entry.Kind().String(),
		})
	}
	a.logger.Info(ctx, "applied queue acl", map[string]any{
		"queue":   string(formatName),
		"entries": l.Len(),
	})
	return nil
}

package hades

import (
	"context"

	"github.com/tartarus-sandbox/minos/pkg/domain"
	"golang.org/x/time/rate"
)

// ThrottledDirectory wraps a Directory with a token bucket so one noisy
// policy resolution cannot flood the upstream directory service. Over the
// limit, calls fail with ErrDirectoryThrottled without reaching the inner
// directory.
type ThrottledDirectory struct {
	inner   Directory
	limiter *rate.Limiter
}

// NewThrottledDirectory allows lookupsPerSecond sustained with the given
// burst.
func NewThrottledDirectory(inner Directory, lookupsPerSecond float64, burst int) *ThrottledDirectory {
	return &ThrottledDirectory{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(lookupsPerSecond), burst),
	}
}

func (d *ThrottledDirectory) Resolve(ctx context.Context, path domain.QueuePath) (domain.FormatName, error) {
	if !d.limiter.Allow() {
		return "", ErrDirectoryThrottled
	}
	return d.inner.Resolve(ctx, path)
}

func (d *ThrottledDirectory) Enumerate(ctx context.Context, c domain.Criteria) ([]domain.FormatName, error) {
	if !d.limiter.Allow() {
		return nil, ErrDirectoryThrottled
	}
	return d.inner.Enumerate(ctx, c)
}

package hades_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hades"
)

func TestThrottledDirectory_Burst(t *testing.T) {
	inner := hades.NewMemoryDirectory()
	ctx := context.Background()
	if err := inner.Register(ctx, domain.QueueInfo{Path: `styx\orders`, FormatName: "PUBLIC=orders"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// 1 lookup/s, burst of 2: two calls pass, the third is rejected
	dir := hades.NewThrottledDirectory(inner, 1, 2)

	if _, err := dir.Resolve(ctx, `styx\orders`); err != nil {
		t.Fatalf("First resolve should pass: %v", err)
	}
	if _, err := dir.Enumerate(ctx, domain.Criteria{}); err != nil {
		t.Fatalf("Second lookup should pass: %v", err)
	}
	if _, err := dir.Resolve(ctx, `styx\orders`); !errors.Is(err, hades.ErrDirectoryThrottled) {
		t.Errorf("Expected ErrDirectoryThrottled, got %v", err)
	}
}

func TestThrottledDirectory_PassesThroughErrors(t *testing.T) {
	dir := hades.NewThrottledDirectory(hades.NewMemoryDirectory(), 100, 100)

	_, err := dir.Resolve(context.Background(), `lethe\missing`)
	if !errors.Is(err, hades.ErrQueueNotFound) {
		t.Errorf("Expected inner ErrQueueNotFound through decorator, got %v", err)
	}
}

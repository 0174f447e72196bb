package hades_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hades"
)

func TestMemoryDirectory_ResolveCaseInsensitive(t *testing.T) {
	dir := hades.NewMemoryDirectory()
	ctx := context.Background()

	err := dir.Register(ctx, domain.QueueInfo{
		Path:       `Styx\Orders`,
		FormatName: "PUBLIC=order-queue",
		Machine:    "STYX",
		Label:      "orders",
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// Lookup under different casing
	fn, err := dir.Resolve(ctx, `styx\orders`)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if fn != "PUBLIC=order-queue" {
		t.Errorf("Expected PUBLIC=order-queue, got %s", fn)
	}

	// Original spelling is preserved in the record
	infos, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Path != `Styx\Orders` {
		t.Errorf("Expected original path spelling preserved, got %+v", infos)
	}
}

func TestMemoryDirectory_ResolveNotFound(t *testing.T) {
	dir := hades.NewMemoryDirectory()

	_, err := dir.Resolve(context.Background(), `lethe\missing`)
	if !errors.Is(err, hades.ErrQueueNotFound) {
		t.Errorf("Expected ErrQueueNotFound, got %v", err)
	}
}

func TestMemoryDirectory_DuplicateRegistration(t *testing.T) {
	dir := hades.NewMemoryDirectory()
	ctx := context.Background()

	info := domain.QueueInfo{Path: `styx\orders`, FormatName: "PUBLIC=order-queue"}
	if err := dir.Register(ctx, info); err != nil {
		t.Fatalf("First register failed: %v", err)
	}

	// Same path under different casing is still a duplicate
	dup := domain.QueueInfo{Path: `STYX\ORDERS`, FormatName: "PUBLIC=other"}
	if err := dir.Register(ctx, dup); !errors.Is(err, hades.ErrDuplicateQueue) {
		t.Errorf("Expected ErrDuplicateQueue, got %v", err)
	}
}

func TestMemoryDirectory_RejectsInvalidRegistration(t *testing.T) {
	dir := hades.NewMemoryDirectory()
	ctx := context.Background()

	cases := []domain.QueueInfo{
		{Path: "", FormatName: "PUBLIC=x"},
		{Path: `styx\orders`, FormatName: ""},
		{Path: domain.WildcardPath, FormatName: "PUBLIC=x"},
	}
	for _, info := range cases {
		if err := dir.Register(ctx, info); !errors.Is(err, hades.ErrInvalidRegistration) {
			t.Errorf("Expected ErrInvalidRegistration for %+v, got %v", info, err)
		}
	}
}

func TestMemoryDirectory_EnumerateConjunction(t *testing.T) {
	dir := hades.NewMemoryDirectory()
	ctx := context.Background()
	billing := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	queues := []domain.QueueInfo{
		{Path: `styx\orders`, FormatName: "PUBLIC=orders", Machine: "STYX", Label: "orders", Category: billing},
		{Path: `styx\invoices`, FormatName: "PUBLIC=invoices", Machine: "STYX", Label: "invoices", Category: billing},
		{Path: `lethe\orders`, FormatName: "PUBLIC=lethe-orders", Machine: "LETHE", Label: "orders"},
	}
	for _, q := range queues {
		if err := dir.Register(ctx, q); err != nil {
			t.Fatalf("Failed to register %s: %v", q.Path, err)
		}
	}

	// Machine only
	names, err := dir.Enumerate(ctx, domain.Criteria{Machine: "styx"})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 queues on styx, got %d", len(names))
	}

	// Machine and label conjunction
	names, err = dir.Enumerate(ctx, domain.Criteria{Machine: "styx", Label: "orders"})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(names) != 1 || names[0] != "PUBLIC=orders" {
		t.Errorf("Expected exactly PUBLIC=orders, got %v", names)
	}

	// Category spans machines
	names, err = dir.Enumerate(ctx, domain.Criteria{Category: billing})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 billing queues, got %d", len(names))
	}

	// Zero criteria matches everything
	names, err = dir.Enumerate(ctx, domain.Criteria{})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(names) != 3 {
		t.Errorf("Expected all 3 queues, got %d", len(names))
	}
}

func TestMemoryDirectory_Deregister(t *testing.T) {
	dir := hades.NewMemoryDirectory()
	ctx := context.Background()

	info := domain.QueueInfo{Path: `styx\orders`, FormatName: "PUBLIC=orders"}
	if err := dir.Register(ctx, info); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := dir.Deregister(ctx, `STYX\orders`); err != nil {
		t.Fatalf("Deregister failed: %v", err)
	}

	if _, err := dir.Resolve(ctx, `styx\orders`); !errors.Is(err, hades.ErrQueueNotFound) {
		t.Errorf("Expected ErrQueueNotFound after deregister, got %v", err)
	}

	if err := dir.Deregister(ctx, `styx\orders`); !errors.Is(err, hades.ErrQueueNotFound) {
		t.Errorf("Expected ErrQueueNotFound on second deregister, got %v", err)
	}
}

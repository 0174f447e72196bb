package themis

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

func TestRedisStorePutGet(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore(s.Addr(), 0, "")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	p := buildSamplePermission(t)

	if err := store.Put(ctx, "frontdoor", p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := s.Get("minos:policy:frontdoor"); err != nil {
		t.Errorf("expected the document under the minos policy prefix: %v", err)
	}

	got, err := store.Get(ctx, "frontdoor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsResolved() {
		t.Error("a loaded permission must be unresolved")
	}
	if got.Len() != 2 {
		t.Errorf("loaded %d entries, want 2", got.Len())
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore(s.Addr(), 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrPolicyNotFound) {
		t.Errorf("err = %v, want ErrPolicyNotFound", err)
	}
}

func TestRedisStoreListAndDelete(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore(s.Addr(), 0, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, name := range []string{"zeus", "athena"} {
		p := mustPathPermission(t, domain.AccessSend, `olympus\orders`)
		if err := store.Put(ctx, name, p); err != nil {
			t.Fatal(err)
		}
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"athena", "zeus"}) {
		t.Errorf("List = %v, want sorted names without the prefix", names)
	}

	if err := store.Delete(ctx, "zeus"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "zeus"); !errors.Is(err, ErrPolicyNotFound) {
		t.Errorf("second delete err = %v, want ErrPolicyNotFound", err)
	}
}

func TestRedisStoreConnectFailure(t *testing.T) {
	if _, err := NewRedisStore("127.0.0.1:1", 0, ""); err == nil {
		t.Fatal("expected connection failure")
	}
}

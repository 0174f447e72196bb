package cerberus

import (
	"sync"
	"testing"
)

func TestPlatformString(t *testing.T) {
	cases := []struct {
		p    Platform
		want string
	}{
		{PlatformUnknown, "unknown"},
		{PlatformModernNT, "modern-nt"},
		{PlatformLegacyNT, "legacy-nt"},
		{PlatformNonNT, "non-nt"},
		{Platform(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("Platform(%d).String() = %q, want %q", int(tc.p), got, tc.want)
		}
	}
}

func TestPlatformIsNT(t *testing.T) {
	if !PlatformModernNT.IsNT() {
		t.Error("modern NT should carry the descriptor machinery")
	}
	if !PlatformLegacyNT.IsNT() {
		t.Error("legacy NT should carry the descriptor machinery")
	}
	if PlatformNonNT.IsNT() {
		t.Error("non-NT should not carry the descriptor machinery")
	}
	if PlatformUnknown.IsNT() {
		t.Error("unknown platform should not claim the descriptor machinery")
	}
}

func TestHostPlatformProbesOnce(t *testing.T) {
	first := HostPlatform()
	if first == PlatformUnknown {
		t.Fatal("host platform never classifies as unknown after probing")
	}

	var wg sync.WaitGroup
	results := make([]Platform, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = HostPlatform()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != first {
			t.Fatalf("concurrent probe %d returned %v, first returned %v", i, got, first)
		}
	}
}

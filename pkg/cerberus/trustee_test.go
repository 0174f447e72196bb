package cerberus

import (
	"testing"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

func TestNewTrustee(t *testing.T) {
	tr := NewTrustee("alice")
	if tr.Name() != "alice" {
		t.Errorf("Name() = %q, want %q", tr.Name(), "alice")
	}
	if tr.SystemName() != "" {
		t.Errorf("SystemName() = %q, want empty", tr.SystemName())
	}
	if tr.Kind() != domain.TrusteeUnknown {
		t.Errorf("Kind() = %v, want unknown", tr.Kind())
	}
}

func TestNewTrusteeInDomain(t *testing.T) {
	tr := NewTrusteeInDomain("alice", "OLYMPUS")
	if tr.SystemName() != "OLYMPUS" {
		t.Errorf("SystemName() = %q, want %q", tr.SystemName(), "OLYMPUS")
	}
}

func TestComputerTrusteeGetsDollarSuffix(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"workstation7", "workstation7$"},
		{"workstation7$", "workstation7$"},
		{"", ""},
	}
	for _, tc := range cases {
		tr := NewTrusteeWithKind(tc.name, "", domain.TrusteeComputer)
		if tr.Name() != tc.want {
			t.Errorf("computer trustee %q: Name() = %q, want %q", tc.name, tr.Name(), tc.want)
		}
	}
}

func TestNonComputerTrusteeKeepsName(t *testing.T) {
	tr := NewTrusteeWithKind("operators", "", domain.TrusteeGroup)
	if tr.Name() != "operators" {
		t.Errorf("Name() = %q, want %q", tr.Name(), "operators")
	}
}

func TestTrusteeString(t *testing.T) {
	local := NewTrusteeWithKind("alice", "", domain.TrusteeUser)
	if got := local.String(); got != "alice (user)" {
		t.Errorf("String() = %q", got)
	}
	remote := NewTrusteeWithKind("alice", "OLYMPUS", domain.TrusteeUser)
	if got := remote.String(); got != "OLYMPUS\\alice (user)" {
		t.Errorf("String() = %q", got)
	}
}

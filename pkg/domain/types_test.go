package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tartarus-sandbox/minos/pkg/domain"
)

func TestFormatName_Fold(t *testing.T) {
	a := domain.FormatName("PUBLIC=6C0EED6arrow")
	b := domain.FormatName("public=6c0eed6ARROW")
	if a.Fold() != b.Fold() {
		t.Error("Format names differing only in case should fold to the same key")
	}
	if a.IsWildcard() {
		t.Error("Ordinary name reported as wildcard")
	}
	if !domain.WildcardFormatName.IsWildcard() {
		t.Error("Wildcard constant not recognized")
	}
}

func TestCriteria_Matches(t *testing.T) {
	cat := uuid.MustParse("5b1f54e0-1a2b-4c3d-8e9f-001122334455")
	info := domain.QueueInfo{
		Path:       `styx\orders`,
		FormatName: "PUBLIC=order-queue",
		Machine:    "STYX",
		Label:      "orders",
		Category:   cat,
	}

	cases := []struct {
		name string
		c    domain.Criteria
		want bool
	}{
		{"zero matches everything", domain.Criteria{}, true},
		{"machine case-insensitive", domain.Criteria{Machine: "styx"}, true},
		{"machine mismatch", domain.Criteria{Machine: "lethe"}, false},
		{"label exact", domain.Criteria{Label: "orders"}, true},
		{"label case-sensitive", domain.Criteria{Label: "Orders"}, false},
		{"category match", domain.Criteria{Category: cat}, true},
		{"category mismatch", domain.Criteria{Category: uuid.New()}, false},
		{"conjunction", domain.Criteria{Machine: "styx", Label: "orders", Category: cat}, true},
		{"conjunction one off", domain.Criteria{Machine: "styx", Label: "invoices"}, false},
	}

	for _, tc := range cases {
		if got := tc.c.Matches(info); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCriteria_IsZero(t *testing.T) {
	if !(domain.Criteria{}).IsZero() {
		t.Error("Empty criteria should be zero")
	}
	if (domain.Criteria{Label: "x"}).IsZero() {
		t.Error("Criteria with a label should not be zero")
	}
	if (domain.Criteria{Category: uuid.New()}).IsZero() {
		t.Error("Criteria with a category should not be zero")
	}
}

func TestEntryKind_String(t *testing.T) {
	kinds := map[domain.EntryKind]string{
		domain.EntryGrant:  "grant",
		domain.EntrySet:    "set",
		domain.EntryDeny:   "deny",
		domain.EntryRevoke: "revoke",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("EntryKind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}

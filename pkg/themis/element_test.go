package themis

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

func buildSamplePermission(t *testing.T) *QueuePermission {
	t.Helper()
	pathEntry, err := NewPathEntry(domain.AccessSend|domain.AccessPeek, `olympus\orders`)
	if err != nil {
		t.Fatal(err)
	}
	criteriaEntry, err := NewCriteriaEntry(domain.AccessReceive, domain.Criteria{
		Machine:  "olympus",
		Label:    "billing",
		Category: billingCategory,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewQueuePermission(pathEntry, criteriaEntry)
}

func TestPolicyRoundTrip(t *testing.T) {
	p := buildSamplePermission(t)

	data, err := MarshalPolicy(p)
	if err != nil {
		t.Fatalf("MarshalPolicy failed: %v", err)
	}
	got, err := UnmarshalPolicy(data)
	if err != nil {
		t.Fatalf("UnmarshalPolicy failed: %v", err)
	}

	if got.IsResolved() {
		t.Error("a loaded permission must be unresolved")
	}
	if got.Len() != 2 {
		t.Fatalf("loaded %d entries, want 2", got.Len())
	}
	if !got.Entry(0).IsPath() || got.Entry(0).Path() != `olympus\orders` {
		t.Errorf("entry 0 = %v", got.Entry(0))
	}
	if got.Entry(0).Access() != domain.AccessSend|domain.AccessPeek {
		t.Errorf("entry 0 access = %v", got.Entry(0).Access())
	}
	if got.Entry(1).IsPath() {
		t.Error("entry 1 should be a criteria entry")
	}
	if c := got.Entry(1).Criteria(); c.Machine != "olympus" || c.Label != "billing" || c.Category != billingCategory {
		t.Errorf("entry 1 criteria = %+v", c)
	}

	// Same directory, same resolved mapping.
	dir := testDirectory(t)
	ctx := context.Background()
	if err := p.Resolve(ctx, dir); err != nil {
		t.Fatal(err)
	}
	if err := got.Resolve(ctx, dir); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Grants(), p.Grants()) {
		t.Errorf("round-tripped grants = %v, want %v", got.Grants(), p.Grants())
	}
}

func TestUnrestrictedRoundTrip(t *testing.T) {
	data, err := MarshalPolicy(NewUnrestrictedQueuePermission())
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalPolicy(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsUnrestricted() {
		t.Error("unrestricted flag lost in round trip")
	}
	if got.Len() != 0 {
		t.Errorf("unrestricted set has %d entries", got.Len())
	}
}

func TestEncodeOmitsResolvedCache(t *testing.T) {
	p := mustPathPermission(t, domain.AccessSend, `olympus\orders`)
	before := p.Encode()

	if err := p.Resolve(context.Background(), testDirectory(t)); err != nil {
		t.Fatal(err)
	}
	after := p.Encode()

	if !reflect.DeepEqual(before, after) {
		t.Error("encoding must cover selectors only, never the resolved cache")
	}
}

func TestDecodeRejectsUnknownRootTag(t *testing.T) {
	_, err := DecodePermission(&Element{Tag: "Grant"})
	var malformed *MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
	if malformed.Tag != "Grant" {
		t.Errorf("Tag = %q", malformed.Tag)
	}
}

func TestDecodeRejectsUnknownSelectorTag(t *testing.T) {
	el := &Element{
		Tag:      tagPermission,
		Children: []*Element{{Tag: "Everyone"}},
	}
	var malformed *MalformedDocumentError
	if _, err := DecodePermission(el); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestDecodeRejectsPathWithoutValue(t *testing.T) {
	el := &Element{
		Tag:      tagPermission,
		Children: []*Element{{Tag: tagPath, Attributes: map[string]string{attrAccess: "Send"}}},
	}
	var malformed *MalformedDocumentError
	if _, err := DecodePermission(el); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestDecodeRejectsEmptyCriteria(t *testing.T) {
	el := &Element{
		Tag:      tagPermission,
		Children: []*Element{{Tag: tagCriteria, Attributes: map[string]string{attrAccess: "Peek"}}},
	}
	var malformed *MalformedDocumentError
	if _, err := DecodePermission(el); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestDecodeRejectsBadCategory(t *testing.T) {
	el := &Element{
		Tag: tagPermission,
		Children: []*Element{{
			Tag:        tagCriteria,
			Attributes: map[string]string{attrCategory: "not-a-guid"},
		}},
	}
	var malformed *MalformedDocumentError
	if _, err := DecodePermission(el); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestDecodeIgnoresUnknownAttributesAndAccessNames(t *testing.T) {
	el := &Element{
		Tag:        tagPermission,
		Attributes: map[string]string{"schema": "v2"},
		Children: []*Element{{
			Tag: tagPath,
			Attributes: map[string]string{
				attrValue:  `olympus\orders`,
				attrAccess: "Send|Teleport",
				"color":    "red",
			},
		}},
	}
	p, err := DecodePermission(el)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Entry(0).Access() != domain.AccessSend {
		t.Errorf("access = %v, want unknown names dropped", p.Entry(0).Access())
	}
}

func TestDecodeNilDocument(t *testing.T) {
	var malformed *MalformedDocumentError
	if _, err := DecodePermission(nil); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestUnmarshalPolicyRejectsGarbage(t *testing.T) {
	var malformed *MalformedDocumentError
	if _, err := UnmarshalPolicy([]byte("\tnot yaml")); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedDocumentError", err)
	}
}

func TestWildcardPathRoundTrip(t *testing.T) {
	p := mustPathPermission(t, domain.AccessReceive, domain.WildcardPath)
	data, err := MarshalPolicy(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalPolicy(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Entry(0).Path().IsWildcard() {
		t.Error("wildcard path lost in round trip")
	}
}

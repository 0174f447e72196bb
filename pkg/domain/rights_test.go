package domain_test

import (
	"testing"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

func TestQueueRight_StringComposites(t *testing.T) {
	cases := []struct {
		mask domain.QueueRight
		want string
	}{
		{0, "None"},
		{domain.RightDeleteMessage, "DeleteMessage"},
		{domain.RightDeleteMessage | domain.RightPeekMessage, "DeleteMessage|PeekMessage"},
		{domain.RightReceiveMessage, "ReceiveMessage"},
		{domain.RightGenericRead, "GenericRead"},
		{domain.RightFullControl, "FullControl"},
		{domain.RightReceiveMessage | domain.RightWriteMessage, "ReceiveMessage|WriteMessage"},
		{domain.RightDeleteQueue | domain.RightTakeOwnership, "DeleteQueue|TakeQueueOwnership"},
	}

	for _, tc := range cases {
		if got := tc.mask.String(); got != tc.want {
			t.Errorf("String(%#x) = %q, want %q", uint32(tc.mask), got, tc.want)
		}
	}
}

func TestQueueRight_StringUndefinedBits(t *testing.T) {
	mask := domain.RightWriteMessage | domain.QueueRight(0x400000)
	if got := mask.String(); got != "0x400000|WriteMessage" {
		t.Errorf("Expected undefined bits rendered as hex, got %q", got)
	}
}

func TestParseQueueRight(t *testing.T) {
	if got := domain.ParseQueueRight("ReceiveMessage|WriteMessage"); got != domain.RightReceiveMessage|domain.RightWriteMessage {
		t.Errorf("Parse returned %#x", uint32(got))
	}

	// Case-insensitive
	if got := domain.ParseQueueRight("fullcontrol"); got != domain.RightFullControl {
		t.Errorf("Expected case-insensitive match, got %#x", uint32(got))
	}

	// Unknown names are ignored, known ones still land
	if got := domain.ParseQueueRight("SendMail|PeekMessage"); got != domain.RightPeekMessage {
		t.Errorf("Expected unknown name ignored, got %#x", uint32(got))
	}

	if got := domain.ParseQueueRight("None"); got != 0 {
		t.Errorf("Expected None to parse to zero, got %#x", uint32(got))
	}
}

func TestQueueRight_RoundTrip(t *testing.T) {
	masks := []domain.QueueRight{
		domain.RightDeleteMessage,
		domain.RightReceiveMessage,
		domain.RightGenericRead | domain.RightWriteMessage,
		domain.RightFullControl,
		domain.RightSetQueueProperties | domain.RightChangePermissions,
	}
	for _, m := range masks {
		if got := domain.ParseQueueRight(m.String()); got != m {
			t.Errorf("Round trip of %#x gave %#x (%q)", uint32(m), uint32(got), m.String())
		}
	}
}

func TestQueueAccess_IndependentLevels(t *testing.T) {
	// Levels are independent bits: holding Receive must not imply Peek.
	if (domain.AccessSend | domain.AccessReceive).Has(domain.AccessPeek) {
		t.Error("Receive must not contain Peek")
	}

	self := domain.AccessSend | domain.AccessPeek
	other := domain.AccessSend | domain.AccessReceive
	if self&other == self {
		t.Error("Send|Peek must not be a submask of Send|Receive")
	}

	if !(domain.AccessSend | domain.AccessReceive).Has(domain.AccessSend) {
		t.Error("Send|Receive should contain Send")
	}
}

func TestQueueAccess_StringOrder(t *testing.T) {
	mask := domain.AccessSend | domain.AccessPeek | domain.AccessBrowse
	if got := mask.String(); got != "Browse|Peek|Send" {
		t.Errorf("Expected alphabetical rendering, got %q", got)
	}
}

func TestParseQueueAccess(t *testing.T) {
	if got := domain.ParseQueueAccess("send|RECEIVE"); got != domain.AccessSend|domain.AccessReceive {
		t.Errorf("Parse returned %#x", uint32(got))
	}
	if got := domain.ParseQueueAccess("Administer|Teleport"); got != domain.AccessAdminister {
		t.Errorf("Expected unknown level ignored, got %#x", uint32(got))
	}
}

func TestQueueAccess_Rights(t *testing.T) {
	if got := domain.AccessSend.Rights(); got != domain.RightGenericWrite {
		t.Errorf("Send expands to %v", got)
	}
	if got := domain.AccessReceive.Rights(); !got.Has(domain.RightDeleteMessage) || !got.Has(domain.RightDeleteJournalMessage) {
		t.Errorf("Receive should cover both receive composites, got %v", got)
	}
	if got := domain.AccessAdminister.Rights(); got != domain.RightFullControl {
		t.Errorf("Administer expands to %v", got)
	}
	if got := domain.QueueAccess(0).Rights(); got != 0 {
		t.Errorf("Empty access expands to %v", got)
	}
	if got := domain.AccessPeek.Rights(); !got.Has(domain.RightPeekMessage) || got.Has(domain.RightDeleteMessage) {
		t.Errorf("Peek must allow peeking without removal, got %v", got)
	}
}

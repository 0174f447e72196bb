package domain

import (
	"fmt"
	"sort"
	"strings"
)

// QueueRight is the fine-grained native access mask carried by
// access-control entries. The bit layout is the queue manager's and must
// not be renumbered.
type QueueRight uint32

const (
	RightDeleteMessage        QueueRight = 0x00000001
	RightPeekMessage          QueueRight = 0x00000002
	RightWriteMessage         QueueRight = 0x00000004
	RightDeleteJournalMessage QueueRight = 0x00000008
	RightSetQueueProperties   QueueRight = 0x00000010
	RightGetQueueProperties   QueueRight = 0x00000020
	RightDeleteQueue          QueueRight = 0x00010000
	RightGetQueuePermissions  QueueRight = 0x00020000
	RightChangePermissions    QueueRight = 0x00040000
	RightTakeOwnership        QueueRight = 0x00080000

	RightReceiveMessage        = RightDeleteMessage | RightPeekMessage | RightGetQueueProperties | RightGetQueuePermissions
	RightReceiveJournalMessage = RightDeleteJournalMessage | RightPeekMessage | RightGetQueueProperties | RightGetQueuePermissions
	RightGenericRead           = RightGetQueueProperties | RightGetQueuePermissions | RightReceiveMessage | RightReceiveJournalMessage
	RightGenericWrite          = RightGetQueueProperties | RightGetQueuePermissions | RightWriteMessage
	RightFullControl           = RightDeleteMessage | RightPeekMessage | RightWriteMessage | RightDeleteJournalMessage |
		RightSetQueueProperties | RightGetQueueProperties | RightDeleteQueue |
		RightGetQueuePermissions | RightChangePermissions | RightTakeOwnership
)

// QueueAccess is the coarse permission-algebra mask. Each level is an
// independent bit so that subset tests compare levels individually
// (holding Receive does not imply holding Peek).
type QueueAccess uint32

const (
	AccessBrowse     QueueAccess = 1 << 1
	AccessSend       QueueAccess = 1 << 2
	AccessPeek       QueueAccess = 1 << 3
	AccessReceive    QueueAccess = 1 << 4
	AccessAdminister QueueAccess = 1 << 5
)

// Symbolic name tables, highest value first. String peels the highest
// defined mask still contained in the remainder, so composites win over
// their constituent bits.

var queueRightNames = []struct {
	mask QueueRight
	name string
}{
	{RightFullControl, "FullControl"},
	{RightTakeOwnership, "TakeQueueOwnership"},
	{RightChangePermissions, "ChangeQueuePermissions"},
	{RightGenericRead, "GenericRead"},
	{RightReceiveJournalMessage, "ReceiveJournalMessage"},
	{RightGenericWrite, "GenericWrite"},
	{RightReceiveMessage, "ReceiveMessage"},
	{RightGetQueuePermissions, "GetQueuePermissions"},
	{RightDeleteQueue, "DeleteQueue"},
	{RightGetQueueProperties, "GetQueueProperties"},
	{RightSetQueueProperties, "SetQueueProperties"},
	{RightDeleteJournalMessage, "DeleteJournalMessage"},
	{RightWriteMessage, "WriteMessage"},
	{RightPeekMessage, "PeekMessage"},
	{RightDeleteMessage, "DeleteMessage"},
}

var queueAccessNames = []struct {
	mask QueueAccess
	name string
}{
	{AccessAdminister, "Administer"},
	{AccessReceive, "Receive"},
	{AccessPeek, "Peek"},
	{AccessSend, "Send"},
	{AccessBrowse, "Browse"},
}

// Has reports whether every bit of want is present.
func (r QueueRight) Has(want QueueRight) bool { return r&want == want }

// HasAny reports whether any bit of want is present.
func (r QueueRight) HasAny(want QueueRight) bool { return r&want != 0 }

// String renders the mask as a "|"-joined, alphabetically ordered list of
// symbolic names. Bits outside the defined set render as one hex literal.
func (r QueueRight) String() string {
	if r == 0 {
		return "None"
	}
	var names []string
	remaining := r
	for _, def := range queueRightNames {
		if remaining&def.mask == def.mask {
			names = append(names, def.name)
			remaining &^= def.mask
		}
	}
	if remaining != 0 {
		names = append(names, fmt.Sprintf("0x%X", uint32(remaining)))
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// ParseQueueRight is the inverse of String. Matching is case-insensitive
// and unrecognized names are ignored so documents written against a newer
// rights table still load.
func ParseQueueRight(s string) QueueRight {
	var mask QueueRight
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "None") {
			continue
		}
		for _, def := range queueRightNames {
			if strings.EqualFold(def.name, part) {
				mask |= def.mask
				break
			}
		}
	}
	return mask
}

// Has reports whether every bit of want is present.
func (a QueueAccess) Has(want QueueAccess) bool { return a&want == want }

// HasAny reports whether any bit of want is present.
func (a QueueAccess) HasAny(want QueueAccess) bool { return a&want != 0 }

// String renders the mask the same way QueueRight.String does.
func (a QueueAccess) String() string {
	if a == 0 {
		return "None"
	}
	var names []string
	remaining := a
	for _, def := range queueAccessNames {
		if remaining&def.mask == def.mask {
			names = append(names, def.name)
			remaining &^= def.mask
		}
	}
	if remaining != 0 {
		names = append(names, fmt.Sprintf("0x%X", uint32(remaining)))
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// ParseQueueAccess is the inverse of String, case-insensitive, ignoring
// unrecognized names.
func ParseQueueAccess(s string) QueueAccess {
	var mask QueueAccess
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "None") {
			continue
		}
		for _, def := range queueAccessNames {
			if strings.EqualFold(def.name, part) {
				mask |= def.mask
				break
			}
		}
	}
	return mask
}

// Rights translates the coarse policy mask into the native rights it
// stands for when stamped onto a queue ACL.
func (a QueueAccess) Rights() QueueRight {
	var r QueueRight
	if a.Has(AccessBrowse) {
		r |= RightGetQueueProperties | RightGetQueuePermissions
	}
	if a.Has(AccessSend) {
		r |= RightGenericWrite
	}
	if a.Has(AccessPeek) {
		r |= RightPeekMessage | RightGetQueueProperties | RightGetQueuePermissions
	}
	if a.Has(AccessReceive) {
		r |= RightReceiveMessage | RightReceiveJournalMessage
	}
	if a.Has(AccessAdminister) {
		r |= RightFullControl
	}
	return r
}

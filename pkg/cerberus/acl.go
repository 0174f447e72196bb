package cerberus

import (
	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// AccessControlEntry pairs a trustee with the rights granted, set, denied
// or revoked for it. An entry belongs to at most one list at a time; the
// list owns it for as long as it is a member.
type AccessControlEntry struct {
	trustee *Trustee
	mask    domain.QueueRight
	kind    domain.EntryKind
	owner   *AccessControlList
}

// NewAccessControlEntry creates an unattached entry.
func NewAccessControlEntry(trustee *Trustee, mask domain.QueueRight, kind domain.EntryKind) *AccessControlEntry {
	return &AccessControlEntry{
		trustee: trustee,
		mask:    mask,
		kind:    kind,
	}
}

// Trustee returns the entry's trustee.
func (e *AccessControlEntry) Trustee() *Trustee { return e.trustee }

// Mask returns the entry's rights mask.
func (e *AccessControlEntry) Mask() domain.QueueRight { return e.mask }

// Kind returns the entry's disposition.
func (e *AccessControlEntry) Kind() domain.EntryKind { return e.kind }

// AccessControlList is an ordered list of entries. Order is preserved
// into the native ACL: earlier entries take precedence during access
// evaluation. Distinct entries naming the same trustee are permitted.
type AccessControlList struct {
	entries []*AccessControlEntry
}

// NewAccessControlList creates an empty list.
func NewAccessControlList() *AccessControlList {
	return &AccessControlList{}
}

// Add appends an entry. The entry must not already belong to a list.
func (l *AccessControlList) Add(e *AccessControlEntry) error {
	return l.Insert(len(l.entries), e)
}

// Insert places an entry at index i, shifting later entries down.
func (l *AccessControlList) Insert(i int, e *AccessControlEntry) error {
	if e == nil || e.trustee == nil {
		return NewInvalidEntryError("entry is nil")
	}
	if e.owner != nil {
		return NewInvalidEntryError("entry already belongs to a list")
	}
	if i < 0 || i > len(l.entries) {
		return ErrIndexOutOfRange
	}

	l.entries = append(l.entries, nil)
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
	e.owner = l
	return nil
}

// Remove detaches an entry, making it available to other lists. It
// reports whether the entry was a member.
func (l *AccessControlList) Remove(e *AccessControlEntry) bool {
	i := l.IndexOf(e)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	e.owner = nil
	return true
}

// Contains reports whether the entry is a member.
func (l *AccessControlList) Contains(e *AccessControlEntry) bool {
	return l.IndexOf(e) >= 0
}

// IndexOf returns the entry's position, -1 if absent.
func (l *AccessControlList) IndexOf(e *AccessControlEntry) int {
	for i, member := range l.entries {
		if member == e {
			return i
		}
	}
	return -1
}

// Len returns the number of entries.
func (l *AccessControlList) Len() int { return len(l.entries) }

// Entry returns the entry at index i, nil if out of range.
func (l *AccessControlList) Entry(i int) *AccessControlEntry {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

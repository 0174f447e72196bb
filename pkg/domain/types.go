package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Identities

// FormatName is the canonical resolved identity of a queue, the form the
// directory hands back and the permission cache keys on. Comparison is
// case-insensitive; values keep their original spelling.
type FormatName string

// QueuePath is an unresolved pathname such as "machine\queue" or
// "machine\private$\queue". Paths are what policies are written in;
// the directory turns them into format names.
type QueuePath string

const (
	// WildcardFormatName is the reserved cache key meaning "every queue".
	WildcardFormatName FormatName = "*"

	// WildcardPath selects every queue without consulting the directory.
	WildcardPath QueuePath = "*"
)

// Fold returns the canonical lookup key for the format name.
func (f FormatName) Fold() string { return strings.ToLower(string(f)) }

// IsWildcard reports whether the format name is the reserved wildcard.
func (f FormatName) IsWildcard() bool { return f == WildcardFormatName }

// Fold returns the canonical lookup key for the path.
func (p QueuePath) Fold() string { return strings.ToLower(string(p)) }

// IsWildcard reports whether the path is the reserved wildcard.
func (p QueuePath) IsWildcard() bool { return p == WildcardPath }

// Trustee & entry kinds

// TrusteeKind classifies the account behind a trustee name.
type TrusteeKind int

const (
	TrusteeUnknown TrusteeKind = iota
	TrusteeUser
	TrusteeGroup
	TrusteeDomain
	TrusteeAlias
	TrusteeComputer
	TrusteeWellKnown
)

func (k TrusteeKind) String() string {
	switch k {
	case TrusteeUser:
		return "user"
	case TrusteeGroup:
		return "group"
	case TrusteeDomain:
		return "domain"
	case TrusteeAlias:
		return "alias"
	case TrusteeComputer:
		return "computer"
	case TrusteeWellKnown:
		return "wellknown"
	default:
		return "unknown"
	}
}

// EntryKind is the disposition of one access-control entry. The numeric
// values align with the native access-mode discriminants and must not be
// reordered.
type EntryKind int

const (
	EntryGrant  EntryKind = 1 // add the mask to whatever the trustee already holds
	EntrySet    EntryKind = 2 // replace the trustee's rights with the mask
	EntryDeny   EntryKind = 3
	EntryRevoke EntryKind = 4 // remove every entry for the trustee
)

func (k EntryKind) String() string {
	switch k {
	case EntryGrant:
		return "grant"
	case EntrySet:
		return "set"
	case EntryDeny:
		return "deny"
	case EntryRevoke:
		return "revoke"
	default:
		return "unknown"
	}
}

// Directory records

// QueueInfo is the directory's registration record for one queue.
type QueueInfo struct {
	Path       QueuePath  `json:"path"`
	FormatName FormatName `json:"format_name"`
	Machine    string     `json:"machine"`
	Label      string     `json:"label"`
	Category   uuid.UUID  `json:"category,omitempty"`
}

// Criteria selects queues by property instead of by path. Zero-value
// fields are unconstrained; set fields must all match.
type Criteria struct {
	Machine  string    `json:"machine,omitempty"`
	Label    string    `json:"label,omitempty"`
	Category uuid.UUID `json:"category,omitempty"`
}

// IsZero reports whether no field constrains the selection.
func (c Criteria) IsZero() bool {
	return c.Machine == "" && c.Label == "" && c.Category == uuid.Nil
}

// Matches reports whether the queue satisfies every set field. Machine
// names compare case-insensitively, labels exactly.
func (c Criteria) Matches(info QueueInfo) bool {
	if c.Machine != "" && !strings.EqualFold(c.Machine, info.Machine) {
		return false
	}
	if c.Label != "" && c.Label != info.Label {
		return false
	}
	if c.Category != uuid.Nil && c.Category != info.Category {
		return false
	}
	return true
}

package cerberus

import (
	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// AclHandle is an opaque reference to a native access control list. The
// zero handle is "no ACL". Handles returned by BuildNative, MergeEntries
// and GetQueueSecurity are owned by the caller and released with FreeACL,
// exactly once.
type AclHandle uintptr

// NilAcl is the absent ACL handle.
const NilAcl AclHandle = 0

// Buffer is one native allocation. Release with Free, exactly once; a
// second Free fails with ErrAlreadyReleased.
type Buffer interface {
	Bytes() []byte
	Len() uint32
	Free() error
}

// LookupResult reports the outcome of one phase of an account lookup.
// All lengths are in bytes regardless of the subsystem's native text
// encoding.
type LookupResult struct {
	IdentityLen uint32
	DomainLen   uint32
	Kind        domain.TrusteeKind
}

// NoInheritance is the only inheritance mode queue descriptors use.
const NoInheritance uint32 = 0

// ExplicitAccess is one marshalled entry ready for the native merge.
// Identity carries the trustee's raw identity buffer, never its name.
type ExplicitAccess struct {
	Mask        domain.QueueRight
	Mode        domain.EntryKind
	Inheritance uint32
	Identity    Buffer
	Kind        domain.TrusteeKind
}

// SecuritySubsystem is the surface of the operating system's security
// machinery that descriptor building needs. HostSubsystem binds it to the
// real platform; SimSubsystem implements the same contract in memory.
//
// LookupAccount follows the two-phase sizing protocol: called with nil
// buffers it fails with ErrInsufficientBuffer and reports the required
// byte counts in the result; called again with buffers at least that
// large it fills them and reports the trustee kind. systemName may be
// empty for the local machine.
type SecuritySubsystem interface {
	// Platform classifies the world this subsystem talks to.
	Platform() Platform

	// Alloc obtains a native buffer of n bytes.
	Alloc(n uint32) (Buffer, error)

	// LookupAccount resolves an account name to its raw identity.
	LookupAccount(systemName, accountName string, identity, domainText Buffer) (LookupResult, error)

	// MergeEntries merges the records over an existing ACL (NilAcl for
	// none) into a freshly allocated one the caller must free.
	MergeEntries(entries []ExplicitAccess, existing AclHandle) (AclHandle, error)

	// FreeACL releases an ACL handle. Freeing NilAcl is a no-op.
	FreeACL(h AclHandle) error

	// GetQueueSecurity fetches a queue's current ACL as a fresh handle
	// the caller must free.
	GetQueueSecurity(formatName domain.FormatName) (AclHandle, error)

	// SetQueueSecurity replaces a queue's ACL.
	SetQueueSecurity(formatName domain.FormatName, h AclHandle) error
}

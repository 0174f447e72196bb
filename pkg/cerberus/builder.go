package cerberus

import (
	"errors"
	"runtime"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// BuildNative resolves every trustee in the list and merges the entries
// over an existing ACL (NilAcl for none), returning a freshly allocated
// handle the caller must release with FreeNativeACL.
//
// Entries are processed in list order. The first invalid or unresolvable
// entry aborts the build; entries after it are never submitted to the
// subsystem. Every buffer allocated along the way is released exactly
// once before return, whether the build succeeds or fails.
func (l *AccessControlList) BuildNative(sys SecuritySubsystem, existing AclHandle) (AclHandle, error) {
	if !sys.Platform().IsNT() {
		return NilAcl, ErrUnsupportedPlatform
	}

	var (
		buffers []Buffer
		pinner  runtime.Pinner
	)
	defer func() {
		pinner.Unpin()
		for _, b := range buffers {
			b.Free()
		}
	}()

	records := make([]ExplicitAccess, 0, len(l.entries))
	for _, entry := range l.entries {
		trustee := entry.trustee
		if trustee.name == "" {
			return NilAcl, NewInvalidEntryError("trustee name is empty")
		}

		// Sizing phase: no buffers, expect the subsystem to ask for room.
		res, err := sys.LookupAccount(trustee.system, trustee.name, nil, nil)
		if !errors.Is(err, ErrInsufficientBuffer) {
			if err == nil {
				err = errors.New("sizing lookup reported success without a buffer")
			}
			return NilAcl, lookupFailure(trustee.name, err)
		}

		identity, err := sys.Alloc(res.IdentityLen)
		if err != nil {
			return NilAcl, err
		}
		buffers = append(buffers, identity)

		domainText, err := sys.Alloc(res.DomainLen)
		if err != nil {
			return NilAcl, err
		}
		buffers = append(buffers, domainText)

		// Fill phase.
		filled, err := sys.LookupAccount(trustee.system, trustee.name, identity, domainText)
		if err != nil {
			return NilAcl, lookupFailure(trustee.name, err)
		}

		kind := trustee.kind
		if kind == domain.TrusteeUnknown {
			kind = filled.Kind
		}
		records = append(records, ExplicitAccess{
			Mask:        entry.mask,
			Mode:        entry.kind,
			Inheritance: NoInheritance,
			Identity:    identity,
			Kind:        kind,
		})
	}

	// The records hold identity buffer references that cross the native
	// boundary during the merge; keep the array itself immovable.
	if len(records) > 0 {
		pinner.Pin(&records[0])
	}

	return sys.MergeEntries(records, existing)
}

func lookupFailure(name string, err error) error {
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}
	return NewLookupError(name, 0, err)
}

// FreeNativeACL releases a handle produced by BuildNative or returned by
// the subsystem. Releasing NilAcl is a no-op.
func FreeNativeACL(sys SecuritySubsystem, h AclHandle) error {
	return sys.FreeACL(h)
}

// ApplyQueueACL merges the list over the queue's current ACL and writes
// the result back, releasing every intermediate handle.
func ApplyQueueACL(sys SecuritySubsystem, formatName domain.FormatName, l *AccessControlList) error {
	if !sys.Platform().IsNT() {
		return ErrUnsupportedPlatform
	}

	existing, err := sys.GetQueueSecurity(formatName)
	if err != nil {
		return err
	}
	defer sys.FreeACL(existing)

	built, err := l.BuildNative(sys, existing)
	if err != nil {
		return err
	}
	defer sys.FreeACL(built)

	return sys.SetQueueSecurity(formatName, built)
}

//go:build !windows

package cerberus

import "github.com/tartarus-sandbox/minos/pkg/domain"

// HostSubsystem on a non-NT host refuses every native operation. The
// platform gate in BuildNative reports the same condition earlier with
// a cleaner message; these methods exist so callers holding the
// interface never hit a nil.
type HostSubsystem struct{}

// NewHostSubsystem returns the host-backed subsystem.
func NewHostSubsystem() *HostSubsystem { return &HostSubsystem{} }

func (*HostSubsystem) Platform() Platform { return HostPlatform() }

func (*HostSubsystem) Alloc(uint32) (Buffer, error) {
	return nil, ErrUnsupportedPlatform
}

func (*HostSubsystem) LookupAccount(string, string, Buffer, Buffer) (LookupResult, error) {
	return LookupResult{}, ErrUnsupportedPlatform
}

func (*HostSubsystem) MergeEntries([]ExplicitAccess, AclHandle) (AclHandle, error) {
	return NilAcl, ErrUnsupportedPlatform
}

func (*HostSubsystem) FreeACL(AclHandle) error {
	return ErrUnsupportedPlatform
}

func (*HostSubsystem) GetQueueSecurity(domain.FormatName) (AclHandle, error) {
	return NilAcl, ErrUnsupportedPlatform
}

func (*HostSubsystem) SetQueueSecurity(domain.FormatName, AclHandle) error {
	return ErrUnsupportedPlatform
}

//go:build windows

package cerberus

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	modmqrt     = windows.NewLazySystemDLL("mqrt.dll")
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procLocalAlloc         = modkernel32.NewProc("LocalAlloc")
	procSetEntriesInAclW   = modadvapi32.NewProc("SetEntriesInAclW")
	procMQGetQueueSecurity = modmqrt.NewProc("MQGetQueueSecurity")
	procMQSetQueueSecurity = modmqrt.NewProc("MQSetQueueSecurity")
)

const (
	localMemFixedZeroed = 0x0040 // LPTR

	daclSecurityInformation = 0x0004

	mqErrDescriptorTooSmall = 0xC00E0023
)

// HostSubsystem talks to the live queue manager and account database.
// All buffers and ACLs it hands out are LocalAlloc allocations and are
// released through the matching handles exactly once.
type HostSubsystem struct{}

// NewHostSubsystem returns the host-backed subsystem.
func NewHostSubsystem() *HostSubsystem { return &HostSubsystem{} }

func (*HostSubsystem) Platform() Platform { return HostPlatform() }

type hostBuffer struct {
	ptr   uintptr
	size  uint32
	freed bool
}

func (b *hostBuffer) Bytes() []byte {
	if b.freed || b.ptr == 0 || b.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(b.ptr)), b.size)
}

func (b *hostBuffer) Len() uint32 { return b.size }

func (b *hostBuffer) Free() error {
	if b.freed {
		return ErrAlreadyReleased
	}
	b.freed = true
	if b.ptr == 0 {
		return nil
	}
	if _, err := windows.LocalFree(windows.Handle(b.ptr)); err != nil {
		return NewNativeCallError("LocalFree", errnoCode(err))
	}
	return nil
}

func (*HostSubsystem) Alloc(n uint32) (Buffer, error) {
	ptr, _, callErr := procLocalAlloc.Call(localMemFixedZeroed, uintptr(n))
	if ptr == 0 {
		return nil, NewNativeCallError("LocalAlloc", errnoCode(callErr))
	}
	return &hostBuffer{ptr: ptr, size: n}, nil
}

// LookupAccount resolves accountName against the host account database.
// The domain length crossing the interface is in bytes; the host call
// counts UTF-16 characters, so it is doubled on the way out and halved
// on the way in.
func (*HostSubsystem) LookupAccount(systemName, accountName string, identity, domainText Buffer) (LookupResult, error) {
	var sysPtr *uint16
	if systemName != "" {
		p, err := windows.UTF16PtrFromString(systemName)
		if err != nil {
			return LookupResult{}, NewLookupError(accountName, uint32(windows.ERROR_INVALID_PARAMETER), err)
		}
		sysPtr = p
	}
	acctPtr, err := windows.UTF16PtrFromString(accountName)
	if err != nil {
		return LookupResult{}, NewLookupError(accountName, uint32(windows.ERROR_INVALID_PARAMETER), err)
	}

	var (
		sid      *windows.SID
		domPtr   *uint16
		sidLen   uint32
		domChars uint32
		use      uint32
	)
	if identity != nil {
		hb, ok := identity.(*hostBuffer)
		if !ok || hb.freed {
			return LookupResult{}, NewNativeCallError("LookupAccountNameW", uint32(windows.ERROR_INVALID_PARAMETER))
		}
		sid = (*windows.SID)(unsafe.Pointer(hb.ptr))
		sidLen = hb.size
	}
	if domainText != nil {
		hb, ok := domainText.(*hostBuffer)
		if !ok || hb.freed {
			return LookupResult{}, NewNativeCallError("LookupAccountNameW", uint32(windows.ERROR_INVALID_PARAMETER))
		}
		domPtr = (*uint16)(unsafe.Pointer(hb.ptr))
		domChars = hb.size / 2
	}

	err = windows.LookupAccountName(sysPtr, acctPtr, sid, &sidLen, domPtr, &domChars, &use)
	result := LookupResult{
		IdentityLen: sidLen,
		DomainLen:   domChars * 2,
		Kind:        sidUseToKind(use),
	}
	if err == nil {
		return result, nil
	}
	if errno, ok := err.(syscall.Errno); ok && errno == windows.ERROR_INSUFFICIENT_BUFFER {
		return result, ErrInsufficientBuffer
	}
	return LookupResult{}, NewLookupError(accountName, errnoCode(err), err)
}

func (*HostSubsystem) MergeEntries(entries []ExplicitAccess, existing AclHandle) (AclHandle, error) {
	native := make([]windows.EXPLICIT_ACCESS, len(entries))
	for i, rec := range entries {
		hb, ok := rec.Identity.(*hostBuffer)
		if !ok || hb.freed {
			return NilAcl, NewNativeCallError("SetEntriesInAclW", uint32(windows.ERROR_INVALID_PARAMETER))
		}
		native[i] = windows.EXPLICIT_ACCESS{
			AccessPermissions: windows.ACCESS_MASK(rec.Mask),
			AccessMode:        windows.ACCESS_MODE(rec.Mode),
			Inheritance:       rec.Inheritance,
			Trustee: windows.TRUSTEE{
				TrusteeForm:  windows.TRUSTEE_IS_SID,
				TrusteeType:  kindToNative(rec.Kind),
				TrusteeValue: windows.TrusteeValue(hb.ptr),
			},
		}
	}

	var entriesPtr unsafe.Pointer
	if len(native) > 0 {
		entriesPtr = unsafe.Pointer(&native[0])
	}

	var newAcl uintptr
	code, _, _ := procSetEntriesInAclW.Call(
		uintptr(len(native)),
		uintptr(entriesPtr),
		uintptr(existing),
		uintptr(unsafe.Pointer(&newAcl)),
	)
	if code != 0 {
		return NilAcl, NewNativeCallError("SetEntriesInAclW", uint32(code))
	}
	return AclHandle(newAcl), nil
}

func (*HostSubsystem) FreeACL(h AclHandle) error {
	if h == NilAcl {
		return nil
	}
	if _, err := windows.LocalFree(windows.Handle(h)); err != nil {
		return NewNativeCallError("LocalFree", errnoCode(err))
	}
	return nil
}

// GetQueueSecurity reads the queue's discretionary list and copies it
// into an allocation owned by the returned handle. A queue with no
// list yields NilAcl.
func (s *HostSubsystem) GetQueueSecurity(formatName domain.FormatName) (AclHandle, error) {
	fnPtr, err := windows.UTF16PtrFromString(string(formatName))
	if err != nil {
		return NilAcl, NewNativeCallError("MQGetQueueSecurity", uint32(windows.ERROR_INVALID_PARAMETER))
	}

	var needed uint32
	code, _, _ := procMQGetQueueSecurity.Call(
		uintptr(unsafe.Pointer(fnPtr)),
		daclSecurityInformation,
		0,
		0,
		uintptr(unsafe.Pointer(&needed)),
	)
	if uint32(code) != mqErrDescriptorTooSmall {
		return NilAcl, NewNativeCallError("MQGetQueueSecurity", uint32(code))
	}

	sdBuf := make([]byte, needed)
	code, _, _ = procMQGetQueueSecurity.Call(
		uintptr(unsafe.Pointer(fnPtr)),
		daclSecurityInformation,
		uintptr(unsafe.Pointer(&sdBuf[0])),
		uintptr(needed),
		uintptr(unsafe.Pointer(&needed)),
	)
	if code != 0 {
		return NilAcl, NewNativeCallError("MQGetQueueSecurity", uint32(code))
	}

	sd := (*windows.SECURITY_DESCRIPTOR)(unsafe.Pointer(&sdBuf[0]))
	dacl, _, err := sd.DACL()
	if err != nil {
		if err == windows.ERROR_OBJECT_NOT_FOUND {
			return NilAcl, nil
		}
		return NilAcl, NewNativeCallError("GetSecurityDescriptorDacl", errnoCode(err))
	}
	if dacl == nil {
		return NilAcl, nil
	}
	return copyACL(s, dacl)
}

// SetQueueSecurity installs the list carried by h as the queue's
// discretionary list. The handle stays owned by the caller.
func (*HostSubsystem) SetQueueSecurity(formatName domain.FormatName, h AclHandle) error {
	fnPtr, err := windows.UTF16PtrFromString(string(formatName))
	if err != nil {
		return NewNativeCallError("MQSetQueueSecurity", uint32(windows.ERROR_INVALID_PARAMETER))
	}

	sd, err := windows.NewSecurityDescriptor()
	if err != nil {
		return NewNativeCallError("InitializeSecurityDescriptor", errnoCode(err))
	}
	if err := sd.SetDACL((*windows.ACL)(unsafe.Pointer(h)), true, false); err != nil {
		return NewNativeCallError("SetSecurityDescriptorDacl", errnoCode(err))
	}

	code, _, _ := procMQSetQueueSecurity.Call(
		uintptr(unsafe.Pointer(fnPtr)),
		daclSecurityInformation,
		uintptr(unsafe.Pointer(sd)),
	)
	if code != 0 {
		return NewNativeCallError("MQSetQueueSecurity", uint32(code))
	}
	return nil
}

// copyACL clones a borrowed ACL pointer into a fresh allocation so the
// handle outlives the descriptor buffer it was read from.
func copyACL(s *HostSubsystem, acl *windows.ACL) (AclHandle, error) {
	// AclSize lives at byte offset 2 of the header.
	size := *(*uint16)(unsafe.Add(unsafe.Pointer(acl), 2))
	buf, err := s.Alloc(uint32(size))
	if err != nil {
		return NilAcl, err
	}
	hb := buf.(*hostBuffer)
	src := unsafe.Slice((*byte)(unsafe.Pointer(acl)), size)
	copy(hb.Bytes(), src)
	return AclHandle(hb.ptr), nil
}

func errnoCode(err error) uint32 {
	if errno, ok := err.(syscall.Errno); ok {
		return uint32(errno)
	}
	return 0
}

func sidUseToKind(use uint32) domain.TrusteeKind {
	switch use {
	case uint32(windows.SidTypeUser):
		return domain.TrusteeUser
	case uint32(windows.SidTypeGroup):
		return domain.TrusteeGroup
	case uint32(windows.SidTypeDomain):
		return domain.TrusteeDomain
	case uint32(windows.SidTypeAlias):
		return domain.TrusteeAlias
	case uint32(windows.SidTypeWellKnownGroup):
		return domain.TrusteeWellKnown
	case uint32(windows.SidTypeComputer):
		return domain.TrusteeComputer
	default:
		return domain.TrusteeUnknown
	}
}

func kindToNative(kind domain.TrusteeKind) windows.TRUSTEE_TYPE {
	switch kind {
	case domain.TrusteeUser:
		return windows.TRUSTEE_IS_USER
	case domain.TrusteeGroup:
		return windows.TRUSTEE_IS_GROUP
	case domain.TrusteeDomain:
		return windows.TRUSTEE_IS_DOMAIN
	case domain.TrusteeAlias:
		return windows.TRUSTEE_IS_ALIAS
	case domain.TrusteeWellKnown:
		return windows.TRUSTEE_IS_WELL_KNOWN_GROUP
	case domain.TrusteeComputer:
		return windows.TRUSTEE_IS_COMPUTER
	default:
		return windows.TRUSTEE_IS_UNKNOWN
	}
}

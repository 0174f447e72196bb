package cerberus

import (
	"sync"
	"sync/atomic"
)

// Platform classifies the host's security lineage. Only the NT lineages
// carry the descriptor machinery this package drives.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformModernNT
	PlatformLegacyNT
	PlatformNonNT
)

func (p Platform) String() string {
	switch p {
	case PlatformModernNT:
		return "modern-nt"
	case PlatformLegacyNT:
		return "legacy-nt"
	case PlatformNonNT:
		return "non-nt"
	default:
		return "unknown"
	}
}

// IsNT reports whether native access control is available.
func (p Platform) IsNT() bool {
	return p == PlatformModernNT || p == PlatformLegacyNT
}

var (
	platformMu    sync.Mutex
	platformValue atomic.Int32 // Platform, PlatformUnknown until probed
)

// HostPlatform classifies the running host, probing at most once for the
// life of the process. The fast path reads the published value; the slow
// path re-checks under the lock before probing.
func HostPlatform() Platform {
	if p := Platform(platformValue.Load()); p != PlatformUnknown {
		return p
	}

	platformMu.Lock()
	defer platformMu.Unlock()

	if p := Platform(platformValue.Load()); p != PlatformUnknown {
		return p
	}
	p := probePlatform()
	platformValue.Store(int32(p))
	return p
}

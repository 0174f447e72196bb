//go:build windows

package cerberus

import (
	"golang.org/x/sys/windows"
)

// probePlatform reads the NT version directly from ntdll. Vista (NT 6.0)
// is the modern cutoff; anything older still carries descriptors but with
// the legacy merge quirks.
func probePlatform() Platform {
	major, _, _ := windows.RtlGetNtVersionNumbers()
	if major >= 6 {
		return PlatformModernNT
	}
	return PlatformLegacyNT
}

//go:build !windows

package cerberus

func probePlatform() Platform {
	return PlatformNonNT
}

package cerberus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform indicates the host cannot do native access control
	ErrUnsupportedPlatform = errors.New("platform unsupported - cerberus guards NT gates only")

	// ErrInsufficientBuffer is the sizing-phase result of a two-phase lookup
	ErrInsufficientBuffer = errors.New("buffer too small for account identity")

	// ErrAlreadyReleased indicates a double release of a native allocation
	ErrAlreadyReleased = errors.New("native allocation already released")

	// ErrAccessDenied is the verdict when a descriptor does not grant the requested rights
	ErrAccessDenied = errors.New("access denied - the gatekeeper bars the way")

	// ErrIndexOutOfRange indicates an entry index outside the list
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// InvalidEntryError indicates an access-control entry that cannot be
// submitted to the native layer.
type InvalidEntryError struct {
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid access control entry: %s", e.Reason)
}

// NewInvalidEntryError creates a new invalid entry error.
func NewInvalidEntryError(reason string) *InvalidEntryError {
	return &InvalidEntryError{Reason: reason}
}

// LookupError indicates that a trustee name could not be resolved to a
// native identity. OSCode carries the subsystem's error code verbatim.
type LookupError struct {
	Name   string
	OSCode uint32
	Cause  error
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to resolve account %q: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("failed to resolve account %q: os error %d", e.Name, e.OSCode)
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}

// NewLookupError creates a new lookup error.
func NewLookupError(name string, osCode uint32, cause error) *LookupError {
	return &LookupError{
		Name:   name,
		OSCode: osCode,
		Cause:  cause,
	}
}

// NativeCallError indicates a security subsystem primitive failed.
// OSCode carries the subsystem's error code verbatim.
type NativeCallError struct {
	Op     string
	OSCode uint32
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("native call %s failed: os error %d", e.Op, e.OSCode)
}

// NewNativeCallError creates a new native call error.
func NewNativeCallError(op string, osCode uint32) *NativeCallError {
	return &NativeCallError{
		Op:     op,
		OSCode: osCode,
	}
}

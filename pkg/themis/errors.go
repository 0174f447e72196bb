package themis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved indicates an algebra operand whose selectors were never
	// resolved against a directory
	ErrUnresolved = errors.New("permission set is unresolved - themis cannot weigh unresolved selectors")

	// ErrPolicyNotFound indicates the named policy is not in the store
	ErrPolicyNotFound = errors.New("policy not found in the archive of themis")
)

// InvalidEntryError indicates a permission entry that violates the
// one-selector-per-entry contract.
type InvalidEntryError struct {
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid permission entry: %s", e.Reason)
}

// NewInvalidEntryError creates a new invalid entry error.
func NewInvalidEntryError(reason string) *InvalidEntryError {
	return &InvalidEntryError{Reason: reason}
}

// DuplicateIdentityError indicates two selectors resolved to the same
// queue identity. Resolution never overwrites silently.
type DuplicateIdentityError struct {
	FormatName string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("duplicate identity %q during resolution", e.FormatName)
}

// NewDuplicateIdentityError creates a new duplicate identity error.
func NewDuplicateIdentityError(formatName string) *DuplicateIdentityError {
	return &DuplicateIdentityError{FormatName: formatName}
}

// InvalidOperandError indicates an algebra argument of the wrong
// permission type.
type InvalidOperandError struct {
	Got string
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("operand is not a queue permission: %s", e.Got)
}

// NewInvalidOperandError creates a new invalid operand error.
func NewInvalidOperandError(got any) *InvalidOperandError {
	return &InvalidOperandError{Got: fmt.Sprintf("%T", got)}
}

// MalformedDocumentError indicates a policy document that does not follow
// the Permission/Path/Criteria tree shape.
type MalformedDocumentError struct {
	Tag    string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("malformed policy document at %q: %s", e.Tag, e.Reason)
	}
	return fmt.Sprintf("malformed policy document: %s", e.Reason)
}

// NewMalformedDocumentError creates a new malformed document error.
func NewMalformedDocumentError(tag, reason string) *MalformedDocumentError {
	return &MalformedDocumentError{Tag: tag, Reason: reason}
}

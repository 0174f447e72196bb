package themis

import (
	"fmt"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// PermissionEntry pairs an access mask with exactly one selector: either
// a queue path (possibly the wildcard "*") or a criteria filter. Entries
// are immutable once constructed.
type PermissionEntry struct {
	access   domain.QueueAccess
	path     domain.QueuePath
	criteria domain.Criteria
	isPath   bool
}

// NewPathEntry selects a single queue by path. The wildcard path "*"
// selects every queue.
func NewPathEntry(access domain.QueueAccess, path domain.QueuePath) (*PermissionEntry, error) {
	if path == "" {
		return nil, NewInvalidEntryError("path is empty")
	}
	return &PermissionEntry{access: access, path: path, isPath: true}, nil
}

// NewCriteriaEntry selects every queue matching the filter. At least one
// criteria field must be set.
func NewCriteriaEntry(access domain.QueueAccess, c domain.Criteria) (*PermissionEntry, error) {
	if c.IsZero() {
		return nil, NewInvalidEntryError("criteria has no field set")
	}
	return &PermissionEntry{access: access, criteria: c}, nil
}

// Access returns the entry's access mask.
func (e *PermissionEntry) Access() domain.QueueAccess { return e.access }

// IsPath reports whether the entry selects by path.
func (e *PermissionEntry) IsPath() bool { return e.isPath }

// Path returns the path selector, "" for criteria entries.
func (e *PermissionEntry) Path() domain.QueuePath {
	if !e.isPath {
		return ""
	}
	return e.path
}

// Criteria returns the criteria selector, zero for path entries.
func (e *PermissionEntry) Criteria() domain.Criteria {
	if e.isPath {
		return domain.Criteria{}
	}
	return e.criteria
}

func (e *PermissionEntry) clone() *PermissionEntry {
	c := *e
	return &c
}

func (e *PermissionEntry) String() string {
	if e.isPath {
		return fmt.Sprintf("%s on %s", e.access, e.path)
	}
	return fmt.Sprintf("%s on criteria %+v", e.access, e.criteria)
}

package themis

import "context"

// Store persists named permission policies in their serialized form. The
// resolved cache never crosses a store boundary: a loaded permission is
// always unresolved.
type Store interface {
	// Get loads and decodes the named policy. ErrPolicyNotFound if absent.
	Get(ctx context.Context, name string) (*QueuePermission, error)

	// Put serializes and stores the policy under the name, replacing any
	// previous version.
	Put(ctx context.Context, name string, p *QueuePermission) error

	// List returns every stored policy name, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the named policy. ErrPolicyNotFound if absent.
	Delete(ctx context.Context, name string) error
}

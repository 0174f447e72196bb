package hades

import (
	"context"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// Directory is Hades' ledger of queues: it turns pathnames into canonical
// format names and criteria into enumerations. Permission resolution asks
// it; it never hands back the wildcard.
type Directory interface {
	// Resolve maps a pathname to its format name. ErrQueueNotFound when
	// the path is not registered.
	Resolve(ctx context.Context, path domain.QueuePath) (domain.FormatName, error)

	// Enumerate returns the format names of every queue matching the
	// criteria, in a stable order.
	Enumerate(ctx context.Context, c domain.Criteria) ([]domain.FormatName, error)
}

// Registrar is the administrative side of a directory.
type Registrar interface {
	Register(ctx context.Context, info domain.QueueInfo) error
	Deregister(ctx context.Context, path domain.QueuePath) error
	List(ctx context.Context) ([]domain.QueueInfo, error)
}

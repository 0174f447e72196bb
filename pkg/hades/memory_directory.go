package hades

import (
	"context"
	"sort"
	"sync"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// MemoryDirectory is an in-memory implementation of Directory and
// Registrar, keyed by case-folded path.
type MemoryDirectory struct {
	mu     sync.RWMutex
	byPath map[string]domain.QueueInfo
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byPath: make(map[string]domain.QueueInfo),
	}
}

// Register adds a queue record. Paths are unique; re-registering an
// existing path fails with ErrDuplicateQueue.
func (d *MemoryDirectory) Register(ctx context.Context, info domain.QueueInfo) error {
	if info.Path == "" || info.FormatName == "" || info.Path.IsWildcard() {
		return ErrInvalidRegistration
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := info.Path.Fold()
	if _, exists := d.byPath[key]; exists {
		return ErrDuplicateQueue
	}
	d.byPath[key] = info
	return nil
}

// Deregister removes a queue record.
func (d *MemoryDirectory) Deregister(ctx context.Context, path domain.QueuePath) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := path.Fold()
	if _, exists := d.byPath[key]; !exists {
		return ErrQueueNotFound
	}
	delete(d.byPath, key)
	return nil
}

// List returns every record ordered by path.
func (d *MemoryDirectory) List(ctx context.Context) ([]domain.QueueInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	infos := make([]domain.QueueInfo, 0, len(d.byPath))
	for _, info := range d.byPath {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path.Fold() < infos[j].Path.Fold() })
	return infos, nil
}

// Resolve maps a path to its format name.
func (d *MemoryDirectory) Resolve(ctx context.Context, path domain.QueuePath) (domain.FormatName, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	info, exists := d.byPath[path.Fold()]
	if !exists {
		return "", ErrQueueNotFound
	}
	return info.FormatName, nil
}

// Enumerate returns the format names of every matching queue, ordered by
// folded format name.
func (d *MemoryDirectory) Enumerate(ctx context.Context, c domain.Criteria) ([]domain.FormatName, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var names []domain.FormatName
	for _, info := range d.byPath {
		if c.Matches(info) {
			names = append(names, info.FormatName)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Fold() < names[j].Fold() })
	return names, nil
}

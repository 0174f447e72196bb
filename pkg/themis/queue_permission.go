package themis

import (
	"context"
	"time"

	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hades"
	"github.com/tartarus-sandbox/minos/pkg/hermes"
)

// grant is one resolved cache slot. The format name keeps the spelling
// the directory returned; the map key it lives under is casefolded.
type grant struct {
	formatName domain.FormatName
	access     domain.QueueAccess
}

// QueuePermission is a permission set over queues. Selectors are ordered;
// the resolved cache is derived from them and dropped on any mutation.
// Instances are not safe for concurrent mutation or resolution.
type QueuePermission struct {
	unrestricted bool
	entries      []*PermissionEntry
	resolved     bool
	grants       map[string]grant
	logger       hermes.Logger
	metrics      hermes.Metrics
}

// NewQueuePermission creates a restricted set holding the given entries.
func NewQueuePermission(entries ...*PermissionEntry) *QueuePermission {
	p := &QueuePermission{logger: hermes.NewNoopLogger(), metrics: hermes.NewNoopMetrics()}
	p.entries = append(p.entries, entries...)
	return p
}

// NewUnrestrictedQueuePermission creates the set that grants everything.
func NewUnrestrictedQueuePermission() *QueuePermission {
	return &QueuePermission{
		unrestricted: true,
		logger:       hermes.NewNoopLogger(),
		metrics:      hermes.NewNoopMetrics(),
	}
}

// NewPathPermission creates a single-entry set selecting one path.
func NewPathPermission(access domain.QueueAccess, path domain.QueuePath) (*QueuePermission, error) {
	e, err := NewPathEntry(access, path)
	if err != nil {
		return nil, err
	}
	return NewQueuePermission(e), nil
}

// NewCriteriaPermission creates a single-entry set selecting by criteria.
func NewCriteriaPermission(access domain.QueueAccess, c domain.Criteria) (*QueuePermission, error) {
	e, err := NewCriteriaEntry(access, c)
	if err != nil {
		return nil, err
	}
	return NewQueuePermission(e), nil
}

// SetLogger routes resolution diagnostics. Swallowed selector failures
// surface only here.
func (p *QueuePermission) SetLogger(l hermes.Logger) {
	if l != nil {
		p.logger = l
	}
}

// SetMetrics routes resolution counters and directory lookup timings.
func (p *QueuePermission) SetMetrics(m hermes.Metrics) {
	if m != nil {
		p.metrics = m
	}
}

// IsUnrestricted reports whether the set grants everything.
func (p *QueuePermission) IsUnrestricted() bool { return p.unrestricted }

// IsResolved reports whether the resolved cache is populated.
func (p *QueuePermission) IsResolved() bool { return p.resolved }

// Len returns the number of selector entries.
func (p *QueuePermission) Len() int { return len(p.entries) }

// Entry returns the selector at index i, nil if out of range.
func (p *QueuePermission) Entry(i int) *PermissionEntry {
	if i < 0 || i >= len(p.entries) {
		return nil
	}
	return p.entries[i]
}

// Add appends an entry and drops the resolved cache.
func (p *QueuePermission) Add(e *PermissionEntry) error {
	return p.Insert(len(p.entries), e)
}

// Insert places an entry at index i and drops the resolved cache.
func (p *QueuePermission) Insert(i int, e *PermissionEntry) error {
	if e == nil {
		return NewInvalidEntryError("entry is nil")
	}
	if i < 0 || i > len(p.entries) {
		return NewInvalidEntryError("index out of range")
	}
	p.entries = append(p.entries, nil)
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = e
	p.invalidate()
	return nil
}

// RemoveAt deletes the entry at index i and drops the resolved cache.
func (p *QueuePermission) RemoveAt(i int) error {
	if i < 0 || i >= len(p.entries) {
		return NewInvalidEntryError("index out of range")
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	p.invalidate()
	return nil
}

// Clear removes every entry and drops the resolved cache.
func (p *QueuePermission) Clear() {
	p.entries = nil
	p.invalidate()
}

// SetUnrestricted flips the unrestricted flag and drops the resolved
// cache.
func (p *QueuePermission) SetUnrestricted(unrestricted bool) {
	p.unrestricted = unrestricted
	p.invalidate()
}

func (p *QueuePermission) invalidate() {
	p.resolved = false
	p.grants = nil
}

// Resolve populates the cache from the selectors, asking the directory
// for the queues they name. Idempotent once resolved. A selector the
// directory cannot satisfy contributes nothing; the failure is logged at
// debug level and deliberately not propagated, so the effective set
// shrinks instead of the whole operation failing. Two selectors landing
// on the same identity is a *DuplicateIdentityError and leaves the set
// unresolved.
func (p *QueuePermission) Resolve(ctx context.Context, dir hades.Directory) error {
	if p.unrestricted || p.resolved {
		return nil
	}
	p.metrics.IncCounter("minos_resolve_total", 1)

	grants := make(map[string]grant)
	for _, e := range p.entries {
		if e.isPath {
			if e.path.IsWildcard() {
				if err := insertGrant(grants, domain.WildcardFormatName, e.access); err != nil {
					return err
				}
				continue
			}
			start := time.Now()
			fn, err := dir.Resolve(ctx, e.path)
			p.metrics.ObserveHistogram("minos_directory_lookup_seconds", time.Since(start).Seconds())
			if err != nil {
				p.metrics.IncCounter("minos_resolve_failopen_total", 1)
				p.logger.Debug(ctx, "path selector contributed nothing", map[string]any{
					"path":  string(e.path),
					"error": err.Error(),
				})
				continue
			}
			if err := insertGrant(grants, fn, e.access); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		fns, err := dir.Enumerate(ctx, e.criteria)
		p.metrics.ObserveHistogram("minos_directory_lookup_seconds", time.Since(start).Seconds())
		if err != nil {
			p.metrics.IncCounter("minos_resolve_failopen_total", 1)
			p.logger.Debug(ctx, "criteria selector contributed nothing", map[string]any{
				"machine": e.criteria.Machine,
				"label":   e.criteria.Label,
				"error":   err.Error(),
			})
			continue
		}
		for _, fn := range fns {
			if err := insertGrant(grants, fn, e.access); err != nil {
				return err
			}
		}
	}

	p.grants = grants
	p.resolved = true
	return nil
}

func insertGrant(grants map[string]grant, fn domain.FormatName, access domain.QueueAccess) error {
	key := fn.Fold()
	if _, exists := grants[key]; exists {
		return NewDuplicateIdentityError(string(fn))
	}
	grants[key] = grant{formatName: fn, access: access}
	return nil
}

// Grants returns the resolved mapping as (format name, access) pairs in
// no particular order. Empty until Resolve succeeds.
func (p *QueuePermission) Grants() map[domain.FormatName]domain.QueueAccess {
	out := make(map[domain.FormatName]domain.QueueAccess, len(p.grants))
	for _, g := range p.grants {
		out[g.formatName] = g.access
	}
	return out
}

// AccessTo returns the resolved access mask for a format name, honoring
// the wildcard key. Zero when unresolved or not granted; everything when
// unrestricted.
func (p *QueuePermission) AccessTo(fn domain.FormatName) domain.QueueAccess {
	if p.unrestricted {
		return domain.AccessBrowse | domain.AccessSend | domain.AccessPeek |
			domain.AccessReceive | domain.AccessAdminister
	}
	var access domain.QueueAccess
	if g, ok := p.grants[fn.Fold()]; ok {
		access = g.access
	}
	if wc, ok := p.grants[string(domain.WildcardFormatName)]; ok {
		access |= wc.access
	}
	return access
}

// Copy deep-copies the set. A resolved receiver's cache is carried over
// as a snapshot; mutating the copy drops it like any other mutation.
func (p *QueuePermission) Copy() Permission {
	return p.copy()
}

func (p *QueuePermission) copy() *QueuePermission {
	out := &QueuePermission{
		unrestricted: p.unrestricted,
		logger:       p.logger,
		metrics:      p.metrics,
	}
	for _, e := range p.entries {
		out.entries = append(out.entries, e.clone())
	}
	if p.resolved {
		out.resolved = true
		out.grants = make(map[string]grant, len(p.grants))
		for k, g := range p.grants {
			out.grants[k] = g
		}
	}
	return out
}

// resolvedResult wraps a computed mapping as a born-resolved set. Algebra
// results carry no selectors; they are values over the mapping alone.
func resolvedResult(grants map[string]grant) *QueuePermission {
	return &QueuePermission{
		resolved: true,
		grants:   grants,
		logger:   hermes.NewNoopLogger(),
		metrics:  hermes.NewNoopMetrics(),
	}
}

func (p *QueuePermission) operand(other Permission) (*QueuePermission, error) {
	o, ok := other.(*QueuePermission)
	if !ok {
		return nil, NewInvalidOperandError(other)
	}
	return o, nil
}

// Union combines two sets key-wise; masks on shared keys are OR-ed. If
// either operand is unrestricted the union is unrestricted. A nil operand
// is the identity element: the result is a copy of the receiver.
func (p *QueuePermission) Union(other Permission) (Permission, error) {
	if other == nil {
		return p.Copy(), nil
	}
	o, err := p.operand(other)
	if err != nil {
		return nil, err
	}
	if p.unrestricted || o.unrestricted {
		return NewUnrestrictedQueuePermission(), nil
	}
	if !p.resolved || !o.resolved {
		return nil, ErrUnresolved
	}

	merged := make(map[string]grant, len(p.grants)+len(o.grants))
	for k, g := range p.grants {
		merged[k] = g
	}
	for k, g := range o.grants {
		if existing, ok := merged[k]; ok {
			existing.access |= g.access
			merged[k] = existing
		} else {
			merged[k] = g
		}
	}
	return resolvedResult(merged), nil
}

// Intersect keeps only keys present in both sets, with masks AND-ed. An
// unrestricted operand imposes no restriction, so the result is a copy of
// the other side. A nil operand is absorbing: the result is nil.
func (p *QueuePermission) Intersect(other Permission) (Permission, error) {
	if other == nil {
		return nil, nil
	}
	o, err := p.operand(other)
	if err != nil {
		return nil, err
	}
	if o.unrestricted {
		return p.Copy(), nil
	}
	if p.unrestricted {
		return o.Copy(), nil
	}
	if !p.resolved || !o.resolved {
		return nil, ErrUnresolved
	}

	small, large := p.grants, o.grants
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(map[string]grant)
	for k, g := range small {
		if og, ok := large[k]; ok {
			g.access &= og.access
			out[k] = g
		}
	}
	return resolvedResult(out), nil
}

// IsSubsetOf reports whether every grant of the receiver is covered by
// other. An unrestricted other covers everything; an unrestricted
// receiver is only a subset of another unrestricted set. When exactly one
// side resolves to nothing the sets are not reliably comparable and the
// answer is false. A wildcard key in other covers the receiver iff every
// receiver mask is a sub-mask of the wildcard's. A nil other covers only
// an empty, restricted receiver.
func (p *QueuePermission) IsSubsetOf(other Permission) (bool, error) {
	if other == nil {
		if p.unrestricted {
			return false, nil
		}
		if !p.resolved {
			return false, ErrUnresolved
		}
		return len(p.grants) == 0, nil
	}
	o, err := p.operand(other)
	if err != nil {
		return false, err
	}
	if o.unrestricted {
		return true, nil
	}
	if p.unrestricted {
		return false, nil
	}
	if !p.resolved || !o.resolved {
		return false, ErrUnresolved
	}

	selfEmpty := len(p.grants) == 0
	otherEmpty := len(o.grants) == 0
	if selfEmpty != otherEmpty {
		return false, nil
	}

	if wc, ok := o.grants[string(domain.WildcardFormatName)]; ok {
		for _, g := range p.grants {
			if g.access&wc.access != g.access {
				return false, nil
			}
		}
		return true, nil
	}

	for k, g := range p.grants {
		og, ok := o.grants[k]
		if !ok {
			return false, nil
		}
		if g.access&og.access != g.access {
			return false, nil
		}
	}
	return true, nil
}

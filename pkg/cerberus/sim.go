package cerberus

import (
	"bytes"
	"strings"
	"sync"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// Error codes the simulator reports, matching the usual host values.
const (
	SimCodeNoMapping    uint32 = 1332 // name has no identity
	SimCodeBadParameter uint32 = 87
)

// SimSubsystem implements SecuritySubsystem against an in-memory account
// database. It keeps a ledger of every allocation it hands out, so tests
// can assert that descriptor building releases exactly what it takes.
type SimSubsystem struct {
	mu       sync.Mutex
	platform Platform

	accounts       map[string]*simAccount
	lookupFailures map[string]uint32
	mergeFailure   *uint32

	buffers     map[*simBuffer]struct{}
	totalAllocs int

	acls    map[AclHandle][]simAce
	nextAcl AclHandle

	queues map[string][]simAce
}

type simAccount struct {
	name       string
	system     string
	kind       domain.TrusteeKind
	identity   []byte
	domainText string
}

type simAce struct {
	identity []byte
	kind     domain.TrusteeKind
	mask     domain.QueueRight
	deny     bool
}

type simBuffer struct {
	sys   *SimSubsystem
	data  []byte
	freed bool
}

func (b *simBuffer) Bytes() []byte { return b.data }
func (b *simBuffer) Len() uint32   { return uint32(len(b.data)) }

func (b *simBuffer) Free() error {
	b.sys.mu.Lock()
	defer b.sys.mu.Unlock()
	if b.freed {
		return ErrAlreadyReleased
	}
	b.freed = true
	delete(b.sys.buffers, b)
	return nil
}

// NewSimSubsystem creates a simulator classified as a modern NT host.
func NewSimSubsystem() *SimSubsystem {
	return &SimSubsystem{
		platform:       PlatformModernNT,
		accounts:       make(map[string]*simAccount),
		lookupFailures: make(map[string]uint32),
		buffers:        make(map[*simBuffer]struct{}),
		acls:           make(map[AclHandle][]simAce),
		nextAcl:        1,
		queues:         make(map[string][]simAce),
	}
}

// SetPlatform reclassifies the simulated host.
func (s *SimSubsystem) SetPlatform(p Platform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform = p
}

// AddAccount registers a resolvable account. The synthesized identity is
// deterministic per name.
func (s *SimSubsystem) AddAccount(name, system string, kind domain.TrusteeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	domainText := system
	if domainText == "" {
		domainText = "SIM"
	}
	s.accounts[strings.ToLower(name)] = &simAccount{
		name:       name,
		system:     system,
		kind:       kind,
		identity:   []byte("sim-sid:" + strings.ToLower(name)),
		domainText: domainText,
	}
}

// FailLookup makes every lookup of name fail with the given code.
func (s *SimSubsystem) FailLookup(name string, osCode uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupFailures[strings.ToLower(name)] = osCode
}

// FailNextMerge makes the next MergeEntries call fail with the given code.
func (s *SimSubsystem) FailNextMerge(osCode uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := osCode
	s.mergeFailure = &code
}

// OutstandingAllocations reports buffers handed out and not yet freed.
func (s *SimSubsystem) OutstandingAllocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

// TotalAllocations reports every buffer ever handed out.
func (s *SimSubsystem) TotalAllocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAllocs
}

// OutstandingACLs reports ACL handles allocated and not yet freed.
func (s *SimSubsystem) OutstandingACLs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acls)
}

func (s *SimSubsystem) Platform() Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform
}

func (s *SimSubsystem) Alloc(n uint32) (Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &simBuffer{sys: s, data: make([]byte, n)}
	s.buffers[b] = struct{}{}
	s.totalAllocs++
	return b, nil
}

func (s *SimSubsystem) LookupAccount(systemName, accountName string, identity, domainText Buffer) (LookupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(accountName)
	if code, injected := s.lookupFailures[key]; injected {
		return LookupResult{}, NewLookupError(accountName, code, nil)
	}

	acct, ok := s.accounts[key]
	if !ok {
		return LookupResult{}, NewLookupError(accountName, SimCodeNoMapping, nil)
	}
	if systemName != "" && acct.system != "" && !strings.EqualFold(systemName, acct.system) {
		return LookupResult{}, NewLookupError(accountName, SimCodeNoMapping, nil)
	}

	need := LookupResult{
		IdentityLen: uint32(len(acct.identity)),
		DomainLen:   uint32(len(acct.domainText)),
		Kind:        acct.kind,
	}

	// Sizing phase
	if identity == nil || domainText == nil {
		return need, ErrInsufficientBuffer
	}

	idBuf, err := s.ownedBuffer(identity)
	if err != nil {
		return LookupResult{}, err
	}
	domBuf, err := s.ownedBuffer(domainText)
	if err != nil {
		return LookupResult{}, err
	}
	if idBuf.Len() < need.IdentityLen || domBuf.Len() < need.DomainLen {
		return need, ErrInsufficientBuffer
	}

	copy(idBuf.data, acct.identity)
	copy(domBuf.data, acct.domainText)
	return need, nil
}

func (s *SimSubsystem) ownedBuffer(b Buffer) (*simBuffer, error) {
	sb, ok := b.(*simBuffer)
	if !ok || sb.sys != s || sb.freed {
		return nil, NewNativeCallError("LookupAccount", SimCodeBadParameter)
	}
	return sb, nil
}

func (s *SimSubsystem) MergeEntries(entries []ExplicitAccess, existing AclHandle) (AclHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mergeFailure != nil {
		code := *s.mergeFailure
		s.mergeFailure = nil
		return NilAcl, NewNativeCallError("MergeEntries", code)
	}

	var working []simAce
	if existing != NilAcl {
		existingAces, ok := s.acls[existing]
		if !ok {
			return NilAcl, NewNativeCallError("MergeEntries", SimCodeBadParameter)
		}
		working = cloneAces(existingAces)
	}

	for _, rec := range entries {
		sb, ok := rec.Identity.(*simBuffer)
		if !ok || sb.sys != s || sb.freed {
			return NilAcl, NewNativeCallError("MergeEntries", SimCodeBadParameter)
		}
		// Snapshot: the stored ACL must outlive the lookup buffers.
		ident := append([]byte(nil), sb.data...)

		switch rec.Mode {
		case domain.EntryGrant:
			if ace := findAce(working, ident, false); ace != nil {
				ace.mask |= rec.Mask
			} else {
				working = append(working, simAce{identity: ident, kind: rec.Kind, mask: rec.Mask})
			}
		case domain.EntrySet:
			working = removeAces(working, ident)
			working = append(working, simAce{identity: ident, kind: rec.Kind, mask: rec.Mask})
		case domain.EntryDeny:
			if ace := findAce(working, ident, true); ace != nil {
				ace.mask |= rec.Mask
			} else {
				working = append(working, simAce{identity: ident, kind: rec.Kind, mask: rec.Mask, deny: true})
			}
		case domain.EntryRevoke:
			working = removeAces(working, ident)
		default:
			return NilAcl, NewNativeCallError("MergeEntries", SimCodeBadParameter)
		}
	}

	h := s.nextAcl
	s.nextAcl++
	s.acls[h] = canonicalOrder(working)
	return h, nil
}

func (s *SimSubsystem) FreeACL(h AclHandle) error {
	if h == NilAcl {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.acls[h]; !ok {
		return ErrAlreadyReleased
	}
	delete(s.acls, h)
	return nil
}

func (s *SimSubsystem) GetQueueSecurity(formatName domain.FormatName) (AclHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.nextAcl
	s.nextAcl++
	s.acls[h] = cloneAces(s.queues[formatName.Fold()])
	return h, nil
}

func (s *SimSubsystem) SetQueueSecurity(formatName domain.FormatName, h AclHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == NilAcl {
		delete(s.queues, formatName.Fold())
		return nil
	}
	aces, ok := s.acls[h]
	if !ok {
		return NewNativeCallError("SetQueueSecurity", SimCodeBadParameter)
	}
	s.queues[formatName.Fold()] = cloneAces(aces)
	return nil
}

// CheckAccess evaluates the queue's applied descriptor for an account.
// ACEs are walked in order; a deny covering a still-needed right wins.
// Returns nil when every requested right is granted, ErrAccessDenied
// otherwise.
func (s *SimSubsystem) CheckAccess(formatName domain.FormatName, accountName string, want domain.QueueRight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[strings.ToLower(accountName)]
	if !ok {
		return NewLookupError(accountName, SimCodeNoMapping, nil)
	}

	remaining := want
	for _, ace := range s.queues[formatName.Fold()] {
		if !bytes.Equal(ace.identity, acct.identity) {
			continue
		}
		if ace.deny {
			if ace.mask&remaining != 0 {
				return ErrAccessDenied
			}
			continue
		}
		remaining &^= ace.mask
	}
	if remaining != 0 {
		return ErrAccessDenied
	}
	return nil
}

func findAce(aces []simAce, identity []byte, deny bool) *simAce {
	for i := range aces {
		if aces[i].deny == deny && bytes.Equal(aces[i].identity, identity) {
			return &aces[i]
		}
	}
	return nil
}

func removeAces(aces []simAce, identity []byte) []simAce {
	kept := aces[:0]
	for _, ace := range aces {
		if !bytes.Equal(ace.identity, identity) {
			kept = append(kept, ace)
		}
	}
	return kept
}

func cloneAces(aces []simAce) []simAce {
	out := make([]simAce, len(aces))
	for i, ace := range aces {
		out[i] = ace
		out[i].identity = append([]byte(nil), ace.identity...)
	}
	return out
}

// canonicalOrder puts deny entries ahead of grants, keeping relative
// order within each class.
func canonicalOrder(aces []simAce) []simAce {
	out := make([]simAce, 0, len(aces))
	for _, ace := range aces {
		if ace.deny {
			out = append(out, ace)
		}
	}
	for _, ace := range aces {
		if !ace.deny {
			out = append(out, ace)
		}
	}
	return out
}

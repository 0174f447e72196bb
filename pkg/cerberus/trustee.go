package cerberus

import (
	"fmt"
	"strings"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// Trustee names an account an access control entry concerns. Immutable
// after construction; the builder resolves it to a native identity at
// build time, never earlier.
type Trustee struct {
	name   string
	system string
	kind   domain.TrusteeKind
}

// NewTrustee names an account on the local machine of unknown kind.
func NewTrustee(name string) *Trustee {
	return NewTrusteeWithKind(name, "", domain.TrusteeUnknown)
}

// NewTrusteeInDomain names an account resolved against the given system.
func NewTrusteeInDomain(name, system string) *Trustee {
	return NewTrusteeWithKind(name, system, domain.TrusteeUnknown)
}

// NewTrusteeWithKind names an account of a known kind. Computer accounts
// resolve under their machine name with a trailing "$"; it is appended
// here if missing so resolution sees the real account name.
func NewTrusteeWithKind(name, system string, kind domain.TrusteeKind) *Trustee {
	if kind == domain.TrusteeComputer && name != "" && !strings.HasSuffix(name, "$") {
		name += "$"
	}
	return &Trustee{
		name:   name,
		system: system,
		kind:   kind,
	}
}

// Name returns the account name, including any appended "$".
func (t *Trustee) Name() string { return t.name }

// SystemName returns the system the name resolves against, "" for local.
func (t *Trustee) SystemName() string { return t.system }

// Kind returns the declared account kind.
func (t *Trustee) Kind() domain.TrusteeKind { return t.kind }

func (t *Trustee) String() string {
	if t.system != "" {
		return fmt.Sprintf("%s\\%s (%s)", t.system, t.name, t.kind)
	}
	return fmt.Sprintf("%s (%s)", t.name, t.kind)
}

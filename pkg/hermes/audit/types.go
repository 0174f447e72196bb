package audit

import (
	"time"
)

// Action represents the kind of security change being audited.
type Action string

const (
	ActionBuildACL     Action = "acl.build"
	ActionApplyACL     Action = "acl.apply"
	ActionPutPolicy    Action = "policy.put"
	ActionDeletePolicy Action = "policy.delete"
	ActionAccessCheck  Action = "access.check"
)

// Result represents the outcome of the action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultDenied  Result = "denied"
	ResultError   Result = "error"
)

// Event is one entry of the queue-security audit trail. Queue holds the
// format name (or path, for failures before resolution), Trustee the
// account the change concerns, Rights the rendered mask.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Action    Action         `json:"action"`
	Result    Result         `json:"result"`
	Queue     string         `json:"queue,omitempty"`
	Trustee   string         `json:"trustee,omitempty"`
	Rights    string         `json:"rights,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	// PreviousHash is the hash of the previous event in the chain.
	// This is used for tamper-evidence.
	PreviousHash string `json:"previous_hash,omitempty"`
	// Hash is the hash of the current event (including PreviousHash).
	Hash string `json:"hash,omitempty"`
}

package hades

import "errors"

var (
	// ErrQueueNotFound indicates the path has no entry in the directory
	ErrQueueNotFound = errors.New("queue not found in the ledger of hades")

	// ErrDuplicateQueue indicates the path is already registered
	ErrDuplicateQueue = errors.New("queue already registered - the ledger keeps one entry per path")

	// ErrDirectoryThrottled indicates the lookup budget is exhausted
	ErrDirectoryThrottled = errors.New("directory throttled - too many souls at the gate")

	// ErrInvalidRegistration indicates a registration record is incomplete
	ErrInvalidRegistration = errors.New("invalid registration - path and format name are required")
)

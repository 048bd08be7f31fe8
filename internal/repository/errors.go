package repository

import "errors"

var (
	// ErrDuplicateAttempt is returned when the ledger already holds a row for
	// the same (user, attempt, problem). Callers treat it as a replay.
	ErrDuplicateAttempt = errors.New("attempt already recorded")
	// ErrTransient marks a store failure that is safe to retry (busy or
	// locked database, deadline exceeded).
	ErrTransient = errors.New("transient store failure")
)

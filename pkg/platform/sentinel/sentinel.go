package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with
// caller-facing messages.
//
// - ErrNotFound: entity key does not resolve in the store
// - ErrConflict: write violated a uniqueness or state constraint
// - ErrTxConflict: transaction aborted on a serialization conflict; safe to
//   re-run from the read step
// - ErrUnavailable: store or cache temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrTxConflict  = errors.New("transaction conflict")
	ErrUnavailable = errors.New("unavailable")
)

// Package store provides the transaction runners shared by services that
// mutate entities atomically. Stores pick up the running transaction from
// context (pkg/platform/tx), so a single runner covers single-entity and
// cross-entity transactions alike.
package store

import "context"

// TxRunner executes fn atomically. The function must be safe to re-run from
// its read step: runners retry a bounded number of times when the store
// aborts on a serialization conflict, then surface the failure as transient.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

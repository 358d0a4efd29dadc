package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Every cross-step sequence in the core (activation-code check-then-mark,
// inventory read-modify-write, order + items + ledger write) runs through
// WithTx so that correctness rests on the store's transaction isolation, not
// on in-process locking — multiple service instances may run concurrently
// with no shared memory.
//
// USAGE
//
//	tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
//		p, err := products.FindByIDForUpdate(ctx, tx, id)
//		...
//		return err
//	})
//
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept `nil` tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

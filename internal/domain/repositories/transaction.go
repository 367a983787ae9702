package repositories

import "context"

// TxFn is a unit of work run inside a transaction.
// ctx carries the transaction; repositories pick it up through GetTx.
type TxFn func(ctx context.Context) error

// TransactionManager runs units of work atomically
type TransactionManager interface {
	// ExecTx commits if fn returns nil and rolls back otherwise
	ExecTx(ctx context.Context, fn TxFn) error
}

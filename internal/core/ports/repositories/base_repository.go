package repositories

import "context"

// TransactionManager runs a unit of work atomically.
//
// fn receives a context that carries the open transaction; every repository call
// made with that context participates in it. Calling WithinTx with a context that
// already carries a transaction joins it instead of opening a new one, so the
// outermost caller decides the commit boundary. Any error returned by fn rolls
// the whole unit back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

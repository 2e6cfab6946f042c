package database

import "context"

type txKey struct{}

// txScope records the transaction bound to a context and whether the unit
// of work that bound it is responsible for finishing it.
type txScope struct {
	tx    Transaction
	owner bool
	hooks *[]func(context.Context)
}

// WithTx binds tx to the context. Only the owning scope commits or rolls back.
// A non-owning scope joins the transaction already bound to ctx and shares
// its commit hooks.
func WithTx(ctx context.Context, tx Transaction, owner bool) context.Context {
	scope := txScope{tx: tx, owner: owner}
	if outer, ok := scopeFromContext(ctx); ok && !owner {
		scope.hooks = outer.hooks
	} else {
		scope.hooks = new([]func(context.Context))
	}
	return context.WithValue(ctx, txKey{}, scope)
}

// AfterCommit defers fn until the transaction bound to ctx commits. It is
// dropped on rollback. Without a bound transaction nothing is registered and
// false is returned.
func AfterCommit(ctx context.Context, fn func(context.Context)) bool {
	scope, ok := scopeFromContext(ctx)
	if !ok {
		return false
	}
	*scope.hooks = append(*scope.hooks, fn)
	return true
}

// TxFromContext returns the bound transaction, or nil.
func TxFromContext(ctx context.Context) Transaction {
	scope, ok := scopeFromContext(ctx)
	if !ok {
		return nil
	}
	return scope.tx
}

func scopeFromContext(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txKey{}).(txScope)
	if !ok || scope.tx == nil {
		return txScope{}, false
	}
	return scope, true
}

// ExecutorFromContext returns the bound transaction when there is one and the
// connection otherwise, so repositories work the same inside and outside a
// unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when Commit or Rollback see no bound transaction.
var ErrNoTransaction = errors.New("no transaction in context")

// UnitOfWork implements application.UnitOfWork over any Connection. Nested
// Begin calls join the outer transaction and leave finishing it to the owner.
type UnitOfWork struct {
	conn Connection
}

func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := scopeFromContext(ctx); ok {
		return WithTx(ctx, scope.tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

// Commit commits an owned transaction and then runs the hooks registered
// with AfterCommit, in registration order.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	scope, err := u.owned(ctx)
	if err != nil || !scope.owner {
		return err
	}
	if err := scope.tx.Commit(ctx); err != nil {
		return err
	}
	hooks := *scope.hooks
	*scope.hooks = nil
	for _, hook := range hooks {
		hook(ctx)
	}
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	scope, err := u.owned(ctx)
	if err != nil || !scope.owner {
		return err
	}
	*scope.hooks = nil
	return scope.tx.Rollback(ctx)
}

func (u *UnitOfWork) owned(ctx context.Context) (txScope, error) {
	scope, ok := scopeFromContext(ctx)
	if !ok {
		return txScope{}, ErrNoTransaction
	}
	return scope, nil
}

package uowmock

import (
	"context"
	"errors"

	"github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinExpenseTxFn func(ctx context.Context, expenseID string, fn func(r uow.Repos, req *expense.Request) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough returns a UoW whose transactions simply run the callback over
// the given repos, without any transactional boundary.
func Passthrough(r uow.Repos, lookup func(ctx context.Context, expenseID string) (*expense.Request, error)) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(r)
		},
		WithinExpenseTxFn: func(ctx context.Context, expenseID string, fn func(r uow.Repos, req *expense.Request) error) error {
			req, err := lookup(ctx, expenseID)
			if err != nil {
				return err
			}
			return fn(r, req)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinExpenseTx(ctx context.Context, expenseID string, fn func(r uow.Repos, req *expense.Request) error) error {
	if m.WithinExpenseTxFn != nil {
		return m.WithinExpenseTxFn(ctx, expenseID, fn)
	}
	return errUnimplemented
}

package uow

import (
	"context"

	"github.com/Godwinki/oya-backend/internal/domain/budget"
	"github.com/Godwinki/oya-backend/internal/domain/expense"
)

type Repos struct {
	Expenses expense.Repository
	Budgets  budget.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the expense row first, then pass it in
	WithinExpenseTx(ctx context.Context, expenseID string, fn func(r Repos, req *expense.Request) error) error
}

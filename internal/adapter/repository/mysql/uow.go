package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Expenses: &ExpenseRepository{db: tx},
		Budgets:  &BudgetRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinExpenseTx(ctx context.Context, expenseID string, fn func(r uow.Repos, req *expense.Request) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the expense row up-front to prevent races
		req, err := r.Expenses.GetByExpenseIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}

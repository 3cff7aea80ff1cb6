package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	expenseDomain "github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewExpenseRepository(db)

	req := makeRequest("u-1", expenseDomain.StatusDraft)
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Expenses.Create(ctx, req); err != nil {
			return err
		}
		if req.ID == 0 {
			t.Fatalf("auto ID not set")
		}
		return r.Expenses.CreateItem(ctx, &expenseDomain.Item{
			ExpenseID: req.ID, CategoryID: 5, Description: "x",
			Quantity: 1, UnitPrice: 10, EstimatedAmount: 10,
			Status: expenseDomain.ItemPending,
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	got, err := repo.GetByExpenseID(ctx, req.ExpenseID)
	if err != nil {
		t.Fatalf("request not visible after commit: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("item not visible after commit: %+v", got.Items)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewExpenseRepository(db)

	req := makeRequest("u-1", expenseDomain.StatusDraft)
	sentinel := errors.New("boom")

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Expenses.Create(ctx, req); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	if _, err := repo.GetByExpenseID(ctx, req.ExpenseID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinExpenseTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewExpenseRepository(db)

	// Seed a manager-approved request plus the category it draws from.
	seed := makeRequest("u-1", expenseDomain.StatusManagerApproved)
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if err := db.Create(&categorySQLite{ID: 5, Name: "Transport", Code: "TRN",
		AllocatedAmount: 500, UsedAmount: 0}).Error; err != nil {
		t.Fatal(err)
	}

	if err := guow.WithinExpenseTx(ctx, seed.ExpenseID, func(r uow.Repos, req *expenseDomain.Request) error {
		if req == nil || req.ExpenseID != seed.ExpenseID || req.Status != expenseDomain.StatusManagerApproved {
			t.Fatalf("unexpected request passed to fn: %+v", req)
		}
		if err := r.Budgets.AddCategoryUsage(ctx, 5, 120); err != nil {
			return err
		}
		req.Status = expenseDomain.StatusProcessed
		return r.Expenses.Save(ctx, req)
	}); err != nil {
		t.Fatalf("WithinExpenseTx commit err: %v", err)
	}

	got, err := repo.GetByExpenseID(ctx, seed.ExpenseID)
	if err != nil {
		t.Fatalf("GetByExpenseID post-commit: %v", err)
	}
	if got.Status != expenseDomain.StatusProcessed {
		t.Fatalf("status not updated, got=%s", got.Status)
	}
	cat, err := NewBudgetRepository(db).GetCategory(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cat.UsedAmount != 120 {
		t.Fatalf("category usage not committed, got=%v", cat.UsedAmount)
	}
}

func TestGormUoW_WithinExpenseTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	repo := NewExpenseRepository(db)

	seed := makeRequest("u-1", expenseDomain.StatusManagerApproved)
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if err := db.Create(&categorySQLite{ID: 5, Name: "Transport", Code: "TRN",
		AllocatedAmount: 500}).Error; err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinExpenseTx(ctx, seed.ExpenseID, func(r uow.Repos, req *expenseDomain.Request) error {
		if err := r.Budgets.AddCategoryUsage(ctx, 5, 120); err != nil {
			return err
		}
		req.Status = expenseDomain.StatusProcessed
		if err := r.Expenses.Save(ctx, req); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := repo.GetByExpenseID(ctx, seed.ExpenseID)
	if err != nil {
		t.Fatalf("post-rollback GetByExpenseID: %v", err)
	}
	if got.Status != expenseDomain.StatusManagerApproved {
		t.Fatalf("expected MANAGER_APPROVED after rollback, got %s", got.Status)
	}
	cat, err := NewBudgetRepository(db).GetCategory(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cat.UsedAmount != 0 {
		t.Fatalf("category usage must roll back, got=%v", cat.UsedAmount)
	}
}

func TestGormUoW_WithinExpenseTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinExpenseTx(context.Background(), "no-such-expense", func(r uow.Repos, req *expenseDomain.Request) error {
		t.Fatalf("callback should not be called when the request is missing")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

package expensemock

import (
	"context"

	domain "github.com/Godwinki/oya-backend/internal/domain/expense"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn                    func(ctx context.Context, r *domain.Request) error
	SaveFn                      func(ctx context.Context, r *domain.Request) error
	GetByExpenseIDFn            func(ctx context.Context, expenseID string) (*domain.Request, error)
	GetByExpenseIDForUpdateFn   func(ctx context.Context, expenseID string) (*domain.Request, error)
	ListFn                      func(ctx context.Context, f domain.ListFilter) ([]domain.Request, error)
	CreateItemFn                func(ctx context.Context, it *domain.Item) error
	SaveItemFn                  func(ctx context.Context, it *domain.Item) error
	ItemsByExpenseFn            func(ctx context.Context, expenseID uint64) ([]domain.Item, error)
	CreateReceiptFn             func(ctx context.Context, rc *domain.Receipt) error
	CountByRequesterAndStatusFn func(ctx context.Context, requesterID string, st domain.Status) (int64, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, r *domain.Request) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
func (m *Repo) GetByExpenseID(ctx context.Context, expenseID string) (*domain.Request, error) {
	if m.GetByExpenseIDFn != nil {
		return m.GetByExpenseIDFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*domain.Request, error) {
	if m.GetByExpenseIDForUpdateFn != nil {
		return m.GetByExpenseIDForUpdateFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Request, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
func (m *Repo) CreateItem(ctx context.Context, it *domain.Item) error {
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, it)
	}
	return nil
}
func (m *Repo) SaveItem(ctx context.Context, it *domain.Item) error {
	if m.SaveItemFn != nil {
		return m.SaveItemFn(ctx, it)
	}
	return nil
}
func (m *Repo) ItemsByExpense(ctx context.Context, expenseID uint64) ([]domain.Item, error) {
	if m.ItemsByExpenseFn != nil {
		return m.ItemsByExpenseFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) CreateReceipt(ctx context.Context, rc *domain.Receipt) error {
	if m.CreateReceiptFn != nil {
		return m.CreateReceiptFn(ctx, rc)
	}
	return nil
}
func (m *Repo) CountByRequesterAndStatus(ctx context.Context, requesterID string, st domain.Status) (int64, error) {
	if m.CountByRequesterAndStatusFn != nil {
		return m.CountByRequesterAndStatusFn(ctx, requesterID, st)
	}
	return 0, nil
}

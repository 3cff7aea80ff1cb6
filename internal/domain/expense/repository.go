package expense

import "context"

// ListFilter narrows List results. Empty fields are ignored.
type ListFilter struct {
	Status       Status
	DepartmentID uint64
	RequesterID  string
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	Save(ctx context.Context, r *Request) error

	// GetByExpenseID eager-loads items (with categories) and receipts.
	GetByExpenseID(ctx context.Context, expenseID string) (*Request, error)
	// GetByExpenseIDForUpdate is the same read under SELECT ... FOR UPDATE.
	GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*Request, error)

	List(ctx context.Context, f ListFilter) ([]Request, error)

	CreateItem(ctx context.Context, it *Item) error
	SaveItem(ctx context.Context, it *Item) error
	ItemsByExpense(ctx context.Context, expenseID uint64) ([]Item, error)

	CreateReceipt(ctx context.Context, rc *Receipt) error

	CountByRequesterAndStatus(ctx context.Context, requesterID string, st Status) (int64, error)
}

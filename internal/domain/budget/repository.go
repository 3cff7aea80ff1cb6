package budget

import "context"

type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uint64) (*Category, error)

	// AddCategoryUsage increments used_amount server-side
	// (used_amount = used_amount + amount), so concurrent commits against a
	// shared category never undercount each other.
	AddCategoryUsage(ctx context.Context, id uint64, amount float64) error

	CreateAllocation(ctx context.Context, a *Allocation) error
	GetAllocation(ctx context.Context, id uint64) (*Allocation, error)

	// FindAllocationForCategory picks, among ids, the allocation covering
	// categoryID. Returns ErrAllocationNotFound when none matches.
	FindAllocationForCategory(ctx context.Context, ids []uint64, categoryID uint64) (*Allocation, error)

	AddAllocationUsage(ctx context.Context, id uint64, amount float64) error
}

package budgetmock

import (
	"context"

	domain "github.com/Godwinki/oya-backend/internal/domain/budget"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateCategoryFn            func(ctx context.Context, c *domain.Category) error
	GetCategoryFn               func(ctx context.Context, id uint64) (*domain.Category, error)
	AddCategoryUsageFn          func(ctx context.Context, id uint64, amount float64) error
	CreateAllocationFn          func(ctx context.Context, a *domain.Allocation) error
	GetAllocationFn             func(ctx context.Context, id uint64) (*domain.Allocation, error)
	FindAllocationForCategoryFn func(ctx context.Context, ids []uint64, categoryID uint64) (*domain.Allocation, error)
	AddAllocationUsageFn        func(ctx context.Context, id uint64, amount float64) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) CreateCategory(ctx context.Context, c *domain.Category) error {
	if m.CreateCategoryFn != nil {
		return m.CreateCategoryFn(ctx, c)
	}
	return nil
}
func (m *Repo) GetCategory(ctx context.Context, id uint64) (*domain.Category, error) {
	if m.GetCategoryFn != nil {
		return m.GetCategoryFn(ctx, id)
	}
	return nil, domain.ErrCategoryNotFound
}
func (m *Repo) AddCategoryUsage(ctx context.Context, id uint64, amount float64) error {
	if m.AddCategoryUsageFn != nil {
		return m.AddCategoryUsageFn(ctx, id, amount)
	}
	return nil
}
func (m *Repo) CreateAllocation(ctx context.Context, a *domain.Allocation) error {
	if m.CreateAllocationFn != nil {
		return m.CreateAllocationFn(ctx, a)
	}
	return nil
}
func (m *Repo) GetAllocation(ctx context.Context, id uint64) (*domain.Allocation, error) {
	if m.GetAllocationFn != nil {
		return m.GetAllocationFn(ctx, id)
	}
	return nil, domain.ErrAllocationNotFound
}
func (m *Repo) FindAllocationForCategory(ctx context.Context, ids []uint64, categoryID uint64) (*domain.Allocation, error) {
	if m.FindAllocationForCategoryFn != nil {
		return m.FindAllocationForCategoryFn(ctx, ids, categoryID)
	}
	return nil, domain.ErrAllocationNotFound
}
func (m *Repo) AddAllocationUsage(ctx context.Context, id uint64, amount float64) error {
	if m.AddAllocationUsageFn != nil {
		return m.AddAllocationUsageFn(ctx, id, amount)
	}
	return nil
}

package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	budgetDomain "github.com/Godwinki/oya-backend/internal/domain/budget"
)

type BudgetRepository struct{ db *gorm.DB }

func NewBudgetRepository(db *gorm.DB) *BudgetRepository { return &BudgetRepository{db: db} }

func (r *BudgetRepository) CreateCategory(ctx context.Context, c *budgetDomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *BudgetRepository) GetCategory(ctx context.Context, id uint64) (*budgetDomain.Category, error) {
	var out budgetDomain.Category
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, budgetDomain.ErrCategoryNotFound
	}
	return &out, res.Error
}

// AddCategoryUsage runs the increment server-side: concurrent commits against
// a shared category each add their own amount instead of clobbering a stale
// read.
func (r *BudgetRepository) AddCategoryUsage(ctx context.Context, id uint64, amount float64) error {
	res := r.db.WithContext(ctx).
		Model(&budgetDomain.Category{}).
		Where("id = ?", id).
		UpdateColumn("used_amount", gorm.Expr("used_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return budgetDomain.ErrCategoryNotFound
	}
	return nil
}

func (r *BudgetRepository) CreateAllocation(ctx context.Context, a *budgetDomain.Allocation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *BudgetRepository) GetAllocation(ctx context.Context, id uint64) (*budgetDomain.Allocation, error) {
	var out budgetDomain.Allocation
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, budgetDomain.ErrAllocationNotFound
	}
	return &out, res.Error
}

func (r *BudgetRepository) FindAllocationForCategory(ctx context.Context, ids []uint64, categoryID uint64) (*budgetDomain.Allocation, error) {
	if len(ids) == 0 {
		return nil, budgetDomain.ErrAllocationNotFound
	}
	var out budgetDomain.Allocation
	res := r.db.WithContext(ctx).
		Where("id IN ? AND category_id = ?", ids, categoryID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, budgetDomain.ErrAllocationNotFound
	}
	return &out, res.Error
}

func (r *BudgetRepository) AddAllocationUsage(ctx context.Context, id uint64, amount float64) error {
	res := r.db.WithContext(ctx).
		Model(&budgetDomain.Allocation{}).
		Where("id = ?", id).
		UpdateColumn("used_amount", gorm.Expr("used_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return budgetDomain.ErrAllocationNotFound
	}
	return nil
}

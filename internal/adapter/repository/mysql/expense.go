package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	expenseDomain "github.com/Godwinki/oya-backend/internal/domain/expense"
)

type ExpenseRepository struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository { return &ExpenseRepository{db: db} }

func (r *ExpenseRepository) Create(ctx context.Context, req *expenseDomain.Request) error {
	return r.db.WithContext(ctx).Omit("Items", "Receipts").Create(req).Error
}

func (r *ExpenseRepository) Save(ctx context.Context, req *expenseDomain.Request) error {
	return r.db.WithContext(ctx).Omit("Items", "Receipts").Save(req).Error
}

func (r *ExpenseRepository) GetByExpenseID(ctx context.Context, expenseID string) (*expenseDomain.Request, error) {
	var out expenseDomain.Request
	res := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Category").
		Preload("Receipts").
		Where("expense_id = ?", expenseID).
		First(&out)
	return &out, res.Error
}

// GetByExpenseIDForUpdate locks the expense row so concurrent workflow
// transitions against the same request serialize.
func (r *ExpenseRepository) GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*expenseDomain.Request, error) {
	var out expenseDomain.Request
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Preload("Items.Category").
		Preload("Receipts").
		Where("expense_id = ?", expenseID).
		First(&out)
	return &out, res.Error
}

func (r *ExpenseRepository) List(ctx context.Context, f expenseDomain.ListFilter) ([]expenseDomain.Request, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Category").
		Preload("Receipts")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DepartmentID != 0 {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.RequesterID != "" {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	var out []expenseDomain.Request
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *ExpenseRepository) CreateItem(ctx context.Context, it *expenseDomain.Item) error {
	return r.db.WithContext(ctx).Omit("Category").Create(it).Error
}

func (r *ExpenseRepository) SaveItem(ctx context.Context, it *expenseDomain.Item) error {
	return r.db.WithContext(ctx).Omit("Category").Save(it).Error
}

func (r *ExpenseRepository) ItemsByExpense(ctx context.Context, expenseID uint64) ([]expenseDomain.Item, error) {
	var out []expenseDomain.Item
	res := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ExpenseRepository) CreateReceipt(ctx context.Context, rc *expenseDomain.Receipt) error {
	return r.db.WithContext(ctx).Create(rc).Error
}

func (r *ExpenseRepository) CountByRequesterAndStatus(ctx context.Context, requesterID string, st expenseDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&expenseDomain.Request{}).
		Where("requester_id = ? AND status = ?", requesterID, st).
		Count(&n)
	return n, res.Error
}

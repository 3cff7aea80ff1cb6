package budget

import (
	"time"

	"gorm.io/gorm"
)

type CategoryType string

const (
	TypeIncome  CategoryType = "income"
	TypeExpense CategoryType = "expense"
	TypeCapital CategoryType = "capital"
)

type CategoryStatus string

const (
	CategoryActive   CategoryStatus = "active"
	CategoryInactive CategoryStatus = "inactive"
)

// Category tracks allocated vs. used funds per budget line. UsedAmount only
// grows through the cashier-processing step.
type Category struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Code            string         `gorm:"size:50;not null;uniqueIndex:ux_budget_categories_code" json:"code"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	Type            CategoryType   `gorm:"type:enum('income','expense','capital');default:'expense'" json:"type"`
	AllocatedAmount float64        `gorm:"type:decimal(15,2);default:0" json:"allocated_amount"`
	UsedAmount      float64        `gorm:"type:decimal(15,2);default:0" json:"used_amount"`
	Status          CategoryStatus `gorm:"type:enum('active','inactive');default:'active'" json:"status"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "budget_categories" }

// Remaining is the headroom left under the allocation; negative once overspent.
func (c *Category) Remaining() float64 { return c.AllocatedAmount - c.UsedAmount }

// Allocation is the secondary ledger: a category's share of one budget for one
// department and fiscal year. Best-effort: expense items may or may not
// reference one.
type Allocation struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	BudgetID     uint64    `gorm:"not null;index" json:"budget_id"`
	DepartmentID uint64    `gorm:"not null;index" json:"department_id"`
	CategoryID   uint64    `gorm:"not null;index" json:"category_id"`
	Amount       float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	UsedAmount   float64   `gorm:"type:decimal(15,2);default:0" json:"used_amount"`
	FiscalYear   int       `gorm:"not null" json:"fiscal_year"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Allocation) TableName() string { return "budget_allocations" }

// Exceedance describes one category a pending commit would push past its
// allocation. Returned as advisory warnings at approval stages and as the
// blocking budget_exceeded payload at processing.
type Exceedance struct {
	CategoryID    uint64  `json:"categoryId"`
	CategoryName  string  `json:"categoryName"`
	Allocated     float64 `json:"allocated"`
	CurrentlyUsed float64 `json:"currentlyUsed"`
	Requested     float64 `json:"requested"`
	Deficit       float64 `json:"deficit"`
}

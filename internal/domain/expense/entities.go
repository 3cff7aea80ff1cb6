package expense

import (
	"time"

	"gorm.io/gorm"

	"github.com/Godwinki/oya-backend/internal/domain/budget"
)

type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusSubmitted          Status = "SUBMITTED"
	StatusAccountantApproved Status = "ACCOUNTANT_APPROVED"
	StatusManagerApproved    Status = "MANAGER_APPROVED"
	StatusProcessed          Status = "PROCESSED"
	StatusCompleted          Status = "COMPLETED"
	StatusRejected           Status = "REJECTED"
)

type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemApproved ItemStatus = "APPROVED"
	ItemRejected ItemStatus = "REJECTED"
)

// Request is the expense aggregate root. The numeric ID is internal; the
// public identifier is ExpenseID (uuid) plus the human-readable RequestNumber.
type Request struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	ExpenseID     string `gorm:"size:36;uniqueIndex:ux_expenses_expense_id_active" json:"id"`
	RequestNumber string `gorm:"size:20;uniqueIndex:ux_expenses_request_number_active" json:"request_number"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Purpose     string `gorm:"type:text" json:"purpose"`

	RequesterID  string `gorm:"size:36;index:idx_expenses_requester" json:"requester_id"`
	DepartmentID uint64 `gorm:"index" json:"department_id"`

	TotalEstimatedAmount float64 `gorm:"type:decimal(15,2)" json:"total_estimated_amount"`
	TotalActualAmount    float64 `gorm:"type:decimal(15,2)" json:"total_actual_amount"`

	Status          Status `gorm:"type:enum('DRAFT','SUBMITTED','ACCOUNTANT_APPROVED','MANAGER_APPROVED','PROCESSED','COMPLETED','REJECTED');default:'DRAFT'" json:"status"`
	RequiresReceipt bool   `gorm:"default:true" json:"requires_receipt"`
	FiscalYear      int    `json:"fiscal_year"`

	AccountantApprovalDate *time.Time `json:"accountant_approval_date,omitempty"`
	AccountantApproverID   *string    `gorm:"size:36" json:"accountant_approver_id,omitempty"`
	AccountantNotes        string     `gorm:"type:text" json:"accountant_notes,omitempty"`

	ManagerApprovalDate *time.Time `json:"manager_approval_date,omitempty"`
	ManagerApproverID   *string    `gorm:"size:36" json:"manager_approver_id,omitempty"`
	ManagerNotes        string     `gorm:"type:text" json:"manager_notes,omitempty"`

	ProcessedDate      *time.Time `json:"processed_date,omitempty"`
	ProcessorID        *string    `gorm:"size:36" json:"processor_id,omitempty"`
	TransactionDetails string     `gorm:"type:text" json:"transaction_details,omitempty"`
	CashierNotes       string     `gorm:"type:text" json:"cashier_notes,omitempty"`

	CompletedDate *time.Time `json:"completed_date,omitempty"`

	RejectedDate    *time.Time `json:"rejected_date,omitempty"`
	RejecterID      *string    `gorm:"size:36" json:"rejecter_id,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	Items    []Item    `gorm:"foreignKey:ExpenseID;references:ID" json:"items"`
	Receipts []Receipt `gorm:"foreignKey:ExpenseRequestID;references:ID" json:"receipts"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Request) TableName() string { return "expense_requests" }

// IsOwnedBy reports whether userID is the requester.
func (r *Request) IsOwnedBy(userID string) bool { return r.RequesterID == userID }

// Item is a single expense line, tagged to exactly one budget category and,
// once the accountant binds allocations, optionally to one budget allocation.
type Item struct {
	ID           uint64  `gorm:"primaryKey;column:id" json:"id"`
	ExpenseID    uint64  `gorm:"not null;index" json:"-"`
	CategoryID   uint64  `gorm:"not null;index" json:"category_id"`
	AllocationID *uint64 `gorm:"index" json:"allocation_id,omitempty"`

	Description     string     `gorm:"type:text;not null" json:"description"`
	Quantity        int        `gorm:"default:1" json:"quantity"`
	UnitPrice       float64    `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	EstimatedAmount float64    `gorm:"type:decimal(15,2);not null" json:"estimated_amount"`
	ActualAmount    float64    `gorm:"type:decimal(15,2);default:0" json:"actual_amount"`
	Status          ItemStatus `gorm:"type:enum('PENDING','APPROVED','REJECTED');default:'PENDING'" json:"status"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`

	Category *budget.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "expense_items" }

// AmountToApply is the figure committed to the budget at processing time:
// the actual amount when one was recorded, the estimate otherwise.
func (i *Item) AmountToApply() float64 {
	if i.ActualAmount > 0 {
		return i.ActualAmount
	}
	return i.EstimatedAmount
}

type Receipt struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"id"`
	ExpenseRequestID uint64    `gorm:"not null;index" json:"-"`
	FileName         string    `gorm:"size:255;not null" json:"file_name"`
	FilePath         string    `gorm:"size:512;not null" json:"file_path"`
	FileType         string    `gorm:"size:100;not null" json:"file_type"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	UploadedBy       string    `gorm:"size:36" json:"uploaded_by"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Receipt) TableName() string { return "receipts" }

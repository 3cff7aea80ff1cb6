package expense

// Actor is the authenticated caller, attached by the identity middleware.
type Actor struct {
	ID   string
	Role string
	IP   string
}

type ItemInput struct {
	CategoryID  uint64  `json:"categoryId" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"omitempty,gte=1"`
	UnitPrice   float64 `json:"unitPrice" validate:"required,gt=0"`
	Notes       string  `json:"notes"`
}

// EstimatedAmount derives quantity x unitPrice, or unitPrice alone when no
// quantity was given.
func (in ItemInput) EstimatedAmount() float64 {
	if in.Quantity > 0 {
		return float64(in.Quantity) * in.UnitPrice
	}
	return in.UnitPrice
}

type CreateInput struct {
	Title           string      `json:"title" validate:"required"`
	Description     string      `json:"description"`
	Purpose         string      `json:"purpose"`
	TotalAmount     float64     `json:"totalAmount" validate:"omitempty,gte=0"`
	DepartmentID    uint64      `json:"departmentId" validate:"required"`
	RequiresReceipt *bool       `json:"requiresReceipt"`
	FiscalYear      int         `json:"fiscalYear"`
	Items           []ItemInput `json:"items" validate:"omitempty,dive"`
}

type AccountantApproveInput struct {
	Notes               string   `json:"notes"`
	BudgetAllocationIDs []uint64 `json:"budgetAllocationIds"`
}

type ManagerApproveInput struct {
	Notes string `json:"notes"`
}

type ProcessInput struct {
	TransactionDetails  string `json:"transactionDetails"`
	Notes               string `json:"notes"`
	OverrideBudgetLimit bool   `json:"overrideBudgetLimit"`
}

type ReceiptInput struct {
	FileName string
	FilePath string
	FileType string
	FileSize int64
}

// StatusCounts is the per-status breakdown of one requester's expenses.
type StatusCounts struct {
	Draft              int64 `json:"DRAFT"`
	Submitted          int64 `json:"SUBMITTED"`
	AccountantApproved int64 `json:"ACCOUNTANT_APPROVED"`
	ManagerApproved    int64 `json:"MANAGER_APPROVED"`
	Processed          int64 `json:"PROCESSED"`
	Completed          int64 `json:"COMPLETED"`
	Rejected           int64 `json:"REJECTED"`
	Total              int64 `json:"total"`
}

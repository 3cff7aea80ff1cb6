package budget

import (
	"errors"
	"fmt"
)

var (
	ErrCategoryNotFound   = errors.New("budget category not found")
	ErrAllocationNotFound = errors.New("budget allocation not found")
)

// ExceededError aborts cashier processing when the override flag is absent.
// Carries the full per-category breakdown so the caller can retry with
// override.
type ExceededError struct {
	Exceeded []Exceedance
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("expense would exceed the budget for %d categories", len(e.Exceeded))
}

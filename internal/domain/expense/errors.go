package expense

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("expense request not found")
	ErrForbidden          = errors.New("caller is not allowed to perform this action")
	ErrNoItems            = errors.New("expense request must have at least one item")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrTxDetailsRequired  = errors.New("transaction details are required")
	ErrReceiptRequired    = errors.New("receipt upload is required before completion")
	ErrTooManyUncompleted = errors.New("too many expense requests pending completion")
)

// InvalidTransitionError names both the current status and the statuses the
// attempted action would have accepted.
type InvalidTransitionError struct {
	Action   string
	Current  Status
	Expected []Status
}

func (e *InvalidTransitionError) Error() string {
	exp := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		exp[i] = string(s)
	}
	return fmt.Sprintf("cannot %s expense request in status %s (requires %s)",
		e.Action, e.Current, strings.Join(exp, " or "))
}

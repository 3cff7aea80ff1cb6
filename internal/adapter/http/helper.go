package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Godwinki/oya-backend/internal/domain/budget"
	expenseDomain "github.com/Godwinki/oya-backend/internal/domain/expense"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status         string       `json:"status"`
	Message        string       `json:"message,omitempty"`
	Data           any          `json:"data,omitempty"`
	BudgetWarnings any          `json:"budgetWarnings,omitempty"`
	Details        []FieldError `json:"details,omitempty"`
}

func success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: "success", Message: message, Data: data})
}

func failure(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: "error", Message: message})
}

// mapError translates domain errors into the HTTP taxonomy. Anything
// unrecognized is logged and surfaced as a generic 500 without leaking
// internals.
func mapError(c echo.Context, log *zap.Logger, err error, fallback string) error {
	var (
		invalid  *expenseDomain.InvalidTransitionError
		exceeded *budget.ExceededError
	)
	switch {
	case errors.Is(err, expenseDomain.ErrNotFound):
		return failure(c, http.StatusNotFound, "Expense request not found")
	case errors.Is(err, budget.ErrCategoryNotFound):
		return failure(c, http.StatusNotFound, "Budget category not found")
	case errors.Is(err, expenseDomain.ErrForbidden):
		return failure(c, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.As(err, &invalid):
		return failure(c, http.StatusBadRequest, invalid.Error())
	case errors.As(err, &exceeded):
		return c.JSON(http.StatusBadRequest, Envelope{
			Status:  "budget_exceeded",
			Message: "This expense would exceed the budget for one or more categories",
			Data:    map[string]any{"exceededItems": exceeded.Exceeded},
		})
	case errors.Is(err, expenseDomain.ErrNoItems),
		errors.Is(err, expenseDomain.ErrReasonRequired),
		errors.Is(err, expenseDomain.ErrTxDetailsRequired),
		errors.Is(err, expenseDomain.ErrReceiptRequired),
		errors.Is(err, expenseDomain.ErrTooManyUncompleted):
		return failure(c, http.StatusBadRequest, err.Error())
	}
	log.Error(fallback, zap.Error(err))
	return failure(c, http.StatusInternalServerError, fallback)
}

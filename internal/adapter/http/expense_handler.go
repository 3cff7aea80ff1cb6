package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Godwinki/oya-backend/internal/adapter/middleware"
	expenseDomain "github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/pdf"
	"github.com/Godwinki/oya-backend/internal/usecase/expense"
)

type ExpenseHandler struct {
	uc        *expense.Usecase
	renderer  pdf.VoucherRenderer
	uploadDir string
	log       *zap.Logger
}

func NewExpenseHandler(uc *expense.Usecase, renderer pdf.VoucherRenderer, uploadDir string, log *zap.Logger) *ExpenseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpenseHandler{uc: uc, renderer: renderer, uploadDir: uploadDir, log: log}
}

func actor(c echo.Context) expense.Actor {
	return expense.Actor{
		ID:   middleware.CallerID(c),
		Role: middleware.CallerRole(c),
		IP:   c.RealIP(),
	}
}

// POST /api/expenses
func (h *ExpenseHandler) Create(c echo.Context) error {
	var in expense.CreateInput
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{
			Status:  "error",
			Message: "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	req, err := h.uc.Create(c.Request().Context(), actor(c), in)
	if err != nil {
		return mapError(c, h.log, err, "Failed to create expense request")
	}
	return success(c, http.StatusCreated, "Expense request created successfully", req)
}

// POST /api/expenses/:id/items
func (h *ExpenseHandler) AddItem(c echo.Context) error {
	var in expense.ItemInput
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{
			Status:  "error",
			Message: "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	req, err := h.uc.AddItem(c.Request().Context(), actor(c), c.Param("id"), in)
	if err != nil {
		return mapError(c, h.log, err, "Failed to add expense item")
	}
	return success(c, http.StatusCreated, "Expense item added successfully", req)
}

// POST /api/expenses/:id/submit
func (h *ExpenseHandler) Submit(c echo.Context) error {
	req, err := h.uc.Submit(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return mapError(c, h.log, err, "Failed to submit expense request")
	}
	return success(c, http.StatusOK, "Expense request submitted successfully", req)
}

// POST /api/expenses/:id/approve/accountant
func (h *ExpenseHandler) ApproveByAccountant(c echo.Context) error {
	var in expense.AccountantApproveInput
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	req, warnings, err := h.uc.ApproveByAccountant(c.Request().Context(), actor(c), c.Param("id"), in)
	if err != nil {
		return mapError(c, h.log, err, "Failed to approve expense request")
	}
	env := Envelope{Status: "success", Message: "Expense request approved by accountant", Data: req}
	if len(warnings) > 0 {
		env.BudgetWarnings = warnings
	}
	return c.JSON(http.StatusOK, env)
}

// POST /api/expenses/:id/approve/manager
func (h *ExpenseHandler) ApproveByManager(c echo.Context) error {
	var in expense.ManagerApproveInput
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	req, warnings, err := h.uc.ApproveByManager(c.Request().Context(), actor(c), c.Param("id"), in)
	if err != nil {
		return mapError(c, h.log, err, "Failed to approve expense request")
	}
	env := Envelope{Status: "success", Message: "Expense request approved by manager", Data: req}
	if len(warnings) > 0 {
		env.BudgetWarnings = warnings
	}
	return c.JSON(http.StatusOK, env)
}

// POST /api/expenses/:id/process
func (h *ExpenseHandler) Process(c echo.Context) error {
	var in expense.ProcessInput
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	req, err := h.uc.Process(c.Request().Context(), actor(c), c.Param("id"), in)
	if err != nil {
		return mapError(c, h.log, err, "Failed to process expense request")
	}
	return success(c, http.StatusOK, "Expense request processed successfully and budget usage updated", req)
}

// POST /api/expenses/:id/complete
func (h *ExpenseHandler) Complete(c echo.Context) error {
	req, err := h.uc.Complete(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return mapError(c, h.log, err, "Failed to mark expense request as completed")
	}
	return success(c, http.StatusOK, "Expense request marked as completed", req)
}

// POST /api/expenses/:id/reject
func (h *ExpenseHandler) Reject(c echo.Context) error {
	var in struct {
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.Bind(&in); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body")
	}
	req, err := h.uc.Reject(c.Request().Context(), actor(c), c.Param("id"), in.RejectionReason)
	if err != nil {
		return mapError(c, h.log, err, "Failed to reject expense request")
	}
	return success(c, http.StatusOK, "Expense request rejected", req)
}

// GET /api/expenses
func (h *ExpenseHandler) List(c echo.Context) error {
	f := expenseDomain.ListFilter{
		Status: expenseDomain.Status(c.QueryParam("status")),
	}
	if v := c.QueryParam("departmentId"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.DepartmentID = n
		}
	}
	out, err := h.uc.List(c.Request().Context(), actor(c), f)
	if err != nil {
		return mapError(c, h.log, err, "Failed to retrieve expenses")
	}
	return success(c, http.StatusOK, "", out)
}

// GET /api/expenses/:id
func (h *ExpenseHandler) Get(c echo.Context) error {
	req, err := h.uc.Get(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return mapError(c, h.log, err, "Failed to retrieve expense request")
	}
	return success(c, http.StatusOK, "", req)
}

// GET /api/expenses/user/pending-completion
func (h *ExpenseHandler) PendingCompletion(c echo.Context) error {
	out, err := h.uc.PendingCompletion(c.Request().Context(), actor(c))
	if err != nil {
		return mapError(c, h.log, err, "Failed to retrieve pending completion expenses")
	}
	return success(c, http.StatusOK, "", out)
}

// GET /api/expenses/user/count
func (h *ExpenseHandler) CountByStatus(c echo.Context) error {
	counts, err := h.uc.CountByStatus(c.Request().Context(), actor(c))
	if err != nil {
		return mapError(c, h.log, err, "Failed to retrieve expense counts")
	}
	return success(c, http.StatusOK, "", counts)
}

// POST /api/expenses/:id/receipts
func (h *ExpenseHandler) UploadReceipt(c echo.Context) error {
	file, err := c.FormFile("receipt")
	if err != nil {
		return failure(c, http.StatusBadRequest, "No receipt file uploaded")
	}

	src, err := file.Open()
	if err != nil {
		return failure(c, http.StatusBadRequest, "Unable to read receipt file")
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return mapError(c, h.log, err, "Failed to store receipt")
	}
	storedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	storedPath := filepath.Join(h.uploadDir, storedName)
	dst, err := os.Create(storedPath)
	if err != nil {
		return mapError(c, h.log, err, "Failed to store receipt")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return mapError(c, h.log, err, "Failed to store receipt")
	}

	rc, err := h.uc.AttachReceipt(c.Request().Context(), actor(c), c.Param("id"), expense.ReceiptInput{
		FileName: file.Filename,
		FilePath: storedPath,
		FileType: file.Header.Get("Content-Type"),
		FileSize: file.Size,
	})
	if err != nil {
		// Attachment refused: drop the stored file again.
		_ = os.Remove(storedPath)
		return mapError(c, h.log, err, "Failed to upload receipt")
	}
	return success(c, http.StatusCreated, "Receipt uploaded successfully", rc)
}

// GET /api/expenses/:id/pdf
func (h *ExpenseHandler) VoucherPDF(c echo.Context) error {
	req, err := h.uc.Get(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return mapError(c, h.log, err, "Failed to generate expense PDF")
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/pdf")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=expense_%s.pdf", req.RequestNumber))
	res.WriteHeader(http.StatusOK)
	return h.renderer.RenderVoucher(res, req)
}

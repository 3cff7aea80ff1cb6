package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Godwinki/oya-backend/internal/adapter/middleware"
	"github.com/Godwinki/oya-backend/internal/domain/budget"
	domainExpense "github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/uow"
	domainUser "github.com/Godwinki/oya-backend/internal/domain/user"
	"github.com/Godwinki/oya-backend/internal/testutil/budgetmock"
	"github.com/Godwinki/oya-backend/internal/testutil/expensemock"
	"github.com/Godwinki/oya-backend/internal/testutil/uowmock"
	ucExpense "github.com/Godwinki/oya-backend/internal/usecase/expense"
)

const (
	requesterID  = "1b4e28ba-2fa1-4d3b-8bdc-4b2f1a0c0d8e"
	accountantID = "9f8b6c1a-3d2e-4f5a-9b7c-0d1e2f3a4b5c"
	strangerID   = "7a6b5c4d-3e2f-4a1b-8c9d-0e1f2a3b4c5d"
)

func mustJSON(v any) *bytes.Reader {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(b)
}

type stubRenderer struct{}

func (stubRenderer) RenderVoucher(w io.Writer, req *domainExpense.Request) error {
	_, err := w.Write([]byte("%PDF-1.4 " + req.RequestNumber))
	return err
}

// newServer wires the routes with the identity middleware only, backed by
// mocks, so requests run the full echo stack.
func newServer(t *testing.T, repo *expensemock.Repo, budgets *budgetmock.Repo, uploadDir string) *echo.Echo {
	t.Helper()
	tx := uowmock.Passthrough(
		uow.Repos{Expenses: repo, Budgets: budgets},
		func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return repo.GetByExpenseIDForUpdate(ctx, expenseID)
		},
	)
	uc := ucExpense.NewUsecase(repo, budgets, tx, nil, nil, ucExpense.Policy{})

	e := echo.New()
	e.Validator = NewValidator()
	RegisterRoutes(e, NewHandler("test"), NewExpenseHandler(uc, stubRenderer{}, uploadDir, nil), middleware.Identity())
	return e
}

func do(e *echo.Echo, method, target, callerID, role string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if callerID != "" {
		req.Header.Set(middleware.HeaderUserID, callerID)
		req.Header.Set(middleware.HeaderUserRole, role)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func TestCreateExpense_Success(t *testing.T) {
	var stored *domainExpense.Request
	repo := &expensemock.Repo{
		CreateFn: func(ctx context.Context, r *domainExpense.Request) error {
			r.ID = 1
			stored = r
			return nil
		},
		SaveFn: func(ctx context.Context, r *domainExpense.Request) error { return nil },
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return stored, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	body := map[string]any{
		"title":        "Team offsite",
		"departmentId": 3,
		"items": []map[string]any{
			{"categoryId": 5, "description": "Venue", "quantity": 1, "unitPrice": 300.0},
		},
	}
	rec := do(e, stdhttp.MethodPost, "/api/expenses", requesterID, "clerk", mustJSON(body))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["status"] != "success" {
		t.Fatalf("envelope status = %v", env["status"])
	}
	data := env["data"].(map[string]any)
	if data["status"] != "DRAFT" || data["requester_id"] != requesterID {
		t.Fatalf("unexpected data: %v", data)
	}
	if !strings.HasPrefix(data["request_number"].(string), "EXP-") {
		t.Fatalf("request number: %v", data["request_number"])
	}
}

func TestCreateExpense_ValidationError(t *testing.T) {
	e := newServer(t, &expensemock.Repo{}, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses", requesterID, "clerk",
		mustJSON(map[string]any{"description": "no title"}))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env struct {
		Status  string       `json:"status"`
		Details []FieldError `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Status != "error" || len(env.Details) == 0 {
		t.Fatalf("expected field details, got %s", rec.Body.String())
	}
}

func TestCreateExpense_Unauthenticated(t *testing.T) {
	e := newServer(t, &expensemock.Repo{}, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses", "", "", mustJSON(map[string]any{"title": "x"}))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSubmit_InvalidTransitionIs400(t *testing.T) {
	repo := &expensemock.Repo{
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return &domainExpense.Request{ExpenseID: expenseID, RequesterID: requesterID,
				Status: domainExpense.StatusSubmitted}, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses/e-1/submit", requesterID, "clerk", nil)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	msg := env["message"].(string)
	if !strings.Contains(msg, "cannot submit") || !strings.Contains(msg, "SUBMITTED") {
		t.Fatalf("unhelpful message: %q", msg)
	}
}

func TestGetExpense_NotFoundAndForbidden(t *testing.T) {
	repo := &expensemock.Repo{
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			if expenseID == "missing" {
				return nil, gorm.ErrRecordNotFound
			}
			return &domainExpense.Request{ExpenseID: expenseID, RequesterID: requesterID}, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	if rec := do(e, stdhttp.MethodGet, "/api/expenses/missing", requesterID, "clerk", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("not-found status = %d", rec.Code)
	}
	if rec := do(e, stdhttp.MethodGet, "/api/expenses/e-1", strangerID, "clerk", nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("stranger status = %d", rec.Code)
	}
	if rec := do(e, stdhttp.MethodGet, "/api/expenses/e-1", accountantID, domainUser.RoleAccountant, nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("privileged status = %d", rec.Code)
	}
}

func submittedOverBudget(expenseID string) *domainExpense.Request {
	cat := &budget.Category{ID: 5, Name: "Stationery", AllocatedAmount: 100, UsedAmount: 80}
	return &domainExpense.Request{
		ID: 9, ExpenseID: expenseID, RequestNumber: "EXP-2508-11111",
		RequesterID: requesterID, Status: domainExpense.StatusSubmitted,
		Items: []domainExpense.Item{{
			ID: 1, ExpenseID: 9, CategoryID: 5, EstimatedAmount: 50, Category: cat,
		}},
	}
}

func TestAccountantApprove_IncludesBudgetWarnings(t *testing.T) {
	repo := &expensemock.Repo{
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return submittedOverBudget(expenseID), nil
		},
		SaveFn: func(ctx context.Context, r *domainExpense.Request) error { return nil },
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses/e-9/approve/accountant",
		accountantID, domainUser.RoleAccountant, mustJSON(map[string]any{"notes": "ok"}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	warnings, ok := env["budgetWarnings"].([]any)
	if !ok || len(warnings) != 1 {
		t.Fatalf("budgetWarnings missing: %s", rec.Body.String())
	}
	w := warnings[0].(map[string]any)
	if w["categoryName"] != "Stationery" || w["deficit"] != 30.0 {
		t.Fatalf("unexpected warning: %v", w)
	}
}

func TestProcess_BudgetExceededPayload(t *testing.T) {
	req := submittedOverBudget("e-9")
	req.Status = domainExpense.StatusManagerApproved
	repo := &expensemock.Repo{
		GetByExpenseIDForUpdateFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return req, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses/e-9/process",
		accountantID, domainUser.RoleCashier,
		mustJSON(map[string]any{"transactionDetails": "chq 9"}))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["status"] != "budget_exceeded" {
		t.Fatalf("envelope status = %v", env["status"])
	}
	data := env["data"].(map[string]any)
	if _, ok := data["exceededItems"].([]any); !ok {
		t.Fatalf("exceededItems missing: %s", rec.Body.String())
	}
}

func TestProcess_OverrideSucceeds(t *testing.T) {
	req := submittedOverBudget("e-9")
	req.Status = domainExpense.StatusManagerApproved
	repo := &expensemock.Repo{
		GetByExpenseIDForUpdateFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return req, nil
		},
		SaveFn: func(ctx context.Context, r *domainExpense.Request) error { return nil },
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses/e-9/process",
		accountantID, domainUser.RoleCashier,
		mustJSON(map[string]any{"transactionDetails": "chq 9", "overrideBudgetLimit": true}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["status"] != "PROCESSED" {
		t.Fatalf("status = %v", data["status"])
	}
}

func TestUploadReceipt_StoresFileAndMetadata(t *testing.T) {
	uploadDir := t.TempDir()
	var created *domainExpense.Receipt
	repo := &expensemock.Repo{
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return &domainExpense.Request{ID: 9, ExpenseID: expenseID, RequesterID: requesterID,
				Status: domainExpense.StatusProcessed, RequiresReceipt: true}, nil
		},
		CreateReceiptFn: func(ctx context.Context, rc *domainExpense.Receipt) error {
			created = rc
			return nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, uploadDir)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("receipt", "taxi.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/expenses/e-9/receipts", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(middleware.HeaderUserID, requesterID)
	req.Header.Set(middleware.HeaderUserRole, "clerk")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	if created == nil || created.FileName != "taxi.jpg" || created.UploadedBy != requesterID {
		t.Fatalf("receipt metadata: %+v", created)
	}
	entries, err := os.ReadDir(uploadDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("stored file missing: %v entries=%d", err, len(entries))
	}
	b, err := os.ReadFile(filepath.Join(uploadDir, entries[0].Name()))
	if err != nil || string(b) != "jpeg-bytes" {
		t.Fatalf("stored content: %q err=%v", b, err)
	}
}

func TestUploadReceipt_MissingFileIs400(t *testing.T) {
	e := newServer(t, &expensemock.Repo{}, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodPost, "/api/expenses/e-9/receipts", requesterID, "clerk", nil)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVoucherPDF_StreamsDocument(t *testing.T) {
	repo := &expensemock.Repo{
		GetByExpenseIDFn: func(ctx context.Context, expenseID string) (*domainExpense.Request, error) {
			return &domainExpense.Request{ExpenseID: expenseID, RequestNumber: "EXP-2508-12345",
				RequesterID: requesterID, Status: domainExpense.StatusProcessed}, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodGet, "/api/expenses/e-9/pdf", requesterID, "clerk", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "EXP-2508-12345") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("body is not a pdf: %q", rec.Body.String()[:10])
	}
}

func TestPendingCompletionAndCounts(t *testing.T) {
	repo := &expensemock.Repo{
		ListFn: func(ctx context.Context, f domainExpense.ListFilter) ([]domainExpense.Request, error) {
			if f.RequesterID != requesterID || f.Status != domainExpense.StatusProcessed {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []domainExpense.Request{{ExpenseID: "e-9", RequesterID: requesterID,
				Status: domainExpense.StatusProcessed}}, nil
		},
		CountByRequesterAndStatusFn: func(ctx context.Context, requester string, st domainExpense.Status) (int64, error) {
			if st == domainExpense.StatusProcessed {
				return 1, nil
			}
			return 0, nil
		},
	}
	e := newServer(t, repo, &budgetmock.Repo{}, t.TempDir())

	rec := do(e, stdhttp.MethodGet, "/api/expenses/user/pending-completion", requesterID, "clerk", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("pending-completion status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if list, ok := env["data"].([]any); !ok || len(list) != 1 {
		t.Fatalf("pending list: %s", rec.Body.String())
	}

	rec = do(e, stdhttp.MethodGet, "/api/expenses/user/count", requesterID, "clerk", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("count status = %d", rec.Code)
	}
	env = decodeEnvelope(t, rec)
	counts := env["data"].(map[string]any)
	if counts["PROCESSED"] != 1.0 || counts["total"] != 1.0 {
		t.Fatalf("counts: %v", counts)
	}
}

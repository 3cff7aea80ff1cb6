package expense

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Godwinki/oya-backend/internal/domain/budget"
	domain "github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/uow"
	"github.com/Godwinki/oya-backend/internal/domain/user"
	"github.com/Godwinki/oya-backend/internal/event"
	"github.com/Godwinki/oya-backend/pkg/reqnum"
)

// requestNumberAttempts bounds the retry loop when the random request-number
// suffix collides with an existing row.
const requestNumberAttempts = 3

// maxOtherProcessed caps how many other PROCESSED requests a requester may
// hold while completing one more.
const maxOtherProcessed = 2

// Policy is the configurable half of the budget-exceedance behavior: when
// EnforceAtApproval is set, the accountant/manager stages hard-block on an
// exceedance instead of returning advisory warnings.
type Policy struct {
	EnforceAtApproval bool
}

type Usecase struct {
	repo    domain.Repository
	budgets budget.Repository
	uow     uow.UnitOfWork
	bus     *event.Bus
	log     *zap.Logger
	policy  Policy
}

func NewUsecase(repo domain.Repository, budgets budget.Repository, tx uow.UnitOfWork, bus *event.Bus, log *zap.Logger, policy Policy) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, budgets: budgets, uow: tx, bus: bus, log: log, policy: policy}
}

func (u *Usecase) publish(ctx context.Context, req *domain.Request, action event.Action, actor Actor) {
	if u.bus == nil {
		return
	}
	u.bus.Publish(ctx, event.ExpenseStatusChanged{
		ExpenseID:     req.ExpenseID,
		RequestNumber: req.RequestNumber,
		Status:        req.Status,
		Action:        action,
		ActorID:       actor.ID,
		ActorIP:       actor.IP,
		RequesterID:   req.RequesterID,
		OccurredAt:    time.Now().UTC(),
	})
}

func (u *Usecase) load(ctx context.Context, expenseID string) (*domain.Request, error) {
	req, err := u.repo.GetByExpenseID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// Create opens a new DRAFT request for the actor, with any initial items, in
// one transaction. The request number is regenerated on a unique-key
// collision.
func (u *Usecase) Create(ctx context.Context, actor Actor, in CreateInput) (*domain.Request, error) {
	if in.Title == "" || in.DepartmentID == 0 {
		return nil, errors.New("invalid input: title and departmentId are required")
	}

	fiscalYear := in.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = time.Now().UTC().Year()
	}
	requiresReceipt := true
	if in.RequiresReceipt != nil {
		requiresReceipt = *in.RequiresReceipt
	}

	req := &domain.Request{
		ExpenseID:            uuid.NewString(),
		Title:                in.Title,
		Description:          in.Description,
		Purpose:              in.Purpose,
		RequesterID:          actor.ID,
		DepartmentID:         in.DepartmentID,
		TotalEstimatedAmount: in.TotalAmount,
		Status:               domain.StatusDraft,
		RequiresReceipt:      requiresReceipt,
		FiscalYear:           fiscalYear,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var createErr error
		for attempt := 0; attempt < requestNumberAttempts; attempt++ {
			req.RequestNumber = reqnum.New(time.Now().UTC())
			createErr = r.Expenses.Create(ctx, req)
			if createErr == nil {
				break
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			u.log.Warn("request number collision, regenerating",
				zap.String("request_number", req.RequestNumber))
		}
		if createErr != nil {
			return createErr
		}

		if len(in.Items) == 0 {
			return nil
		}
		total := 0.0
		for _, it := range in.Items {
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			item := &domain.Item{
				ExpenseID:       req.ID,
				CategoryID:      it.CategoryID,
				Description:     it.Description,
				Quantity:        qty,
				UnitPrice:       it.UnitPrice,
				EstimatedAmount: it.EstimatedAmount(),
				Status:          domain.ItemPending,
				Notes:           it.Notes,
			}
			if err := r.Expenses.CreateItem(ctx, item); err != nil {
				return err
			}
			total += item.EstimatedAmount
		}
		req.TotalEstimatedAmount = total
		return r.Expenses.Save(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	created, err := u.load(ctx, req.ExpenseID)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, created, event.ActionCreated, actor)
	return created, nil
}

// AddItem appends a line to a DRAFT request and recomputes the estimated
// total from every item on record.
func (u *Usecase) AddItem(ctx context.Context, actor Actor, expenseID string, in ItemInput) (*domain.Request, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := guard(OpAddItem, req, actor); err != nil {
		return nil, err
	}

	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	item := &domain.Item{
		ExpenseID:       req.ID,
		CategoryID:      in.CategoryID,
		Description:     in.Description,
		Quantity:        qty,
		UnitPrice:       in.UnitPrice,
		EstimatedAmount: in.EstimatedAmount(),
		Status:          domain.ItemPending,
		Notes:           in.Notes,
	}
	// The insert and the total recompute land together or not at all,
	// keeping totalEstimatedAmount equal to the sum of the items on record.
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Expenses.CreateItem(ctx, item); err != nil {
			return err
		}
		items, err := r.Expenses.ItemsByExpense(ctx, req.ID)
		if err != nil {
			return err
		}
		total := 0.0
		for _, it := range items {
			total += it.EstimatedAmount
		}
		req.TotalEstimatedAmount = total
		return r.Expenses.Save(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	updated, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, updated, event.ActionItemAdded, actor)
	return updated, nil
}

// Submit moves DRAFT -> SUBMITTED; the request must carry at least one item.
func (u *Usecase) Submit(ctx context.Context, actor Actor, expenseID string) (*domain.Request, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := guard(OpSubmit, req, actor); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	req.Status = domain.StatusSubmitted
	if err := u.repo.Save(ctx, req); err != nil {
		return nil, err
	}
	u.publish(ctx, req, event.ActionSubmitted, actor)
	return req, nil
}

// ApproveByAccountant moves SUBMITTED -> ACCOUNTANT_APPROVED. Budget
// exceedances are returned as warnings (or block, under the strict policy),
// and submitted allocation ids are bound item-by-item to matching
// allocations.
func (u *Usecase) ApproveByAccountant(ctx context.Context, actor Actor, expenseID string, in AccountantApproveInput) (*domain.Request, []budget.Exceedance, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if err := guard(OpAccountant, req, actor); err != nil {
		return nil, nil, err
	}

	warnings := u.exceedances(req.Items, "accountant approval")
	if u.policy.EnforceAtApproval && len(warnings) > 0 {
		return nil, nil, &budget.ExceededError{Exceeded: warnings}
	}

	// Bind each item to the allocation covering its category, if the
	// accountant supplied any. A missing match is not an error: the
	// category ledger alone is updated at processing.
	if len(in.BudgetAllocationIDs) > 0 {
		for i := range req.Items {
			alloc, err := u.budgets.FindAllocationForCategory(ctx, in.BudgetAllocationIDs, req.Items[i].CategoryID)
			if err != nil {
				if errors.Is(err, budget.ErrAllocationNotFound) {
					u.log.Info("no matching budget allocation for category",
						zap.Uint64("category_id", req.Items[i].CategoryID),
						zap.String("request_number", req.RequestNumber))
					continue
				}
				return nil, nil, err
			}
			req.Items[i].AllocationID = &alloc.ID
			if err := u.repo.SaveItem(ctx, &req.Items[i]); err != nil {
				return nil, nil, err
			}
		}
	}

	now := time.Now().UTC()
	req.Status = domain.StatusAccountantApproved
	req.AccountantApprovalDate = &now
	req.AccountantApproverID = &actor.ID
	req.AccountantNotes = in.Notes
	if err := u.repo.Save(ctx, req); err != nil {
		return nil, nil, err
	}
	u.publish(ctx, req, event.ActionAccountantApproved, actor)
	return req, warnings, nil
}

// ApproveByManager moves ACCOUNTANT_APPROVED -> MANAGER_APPROVED with the
// same advisory budget check.
func (u *Usecase) ApproveByManager(ctx context.Context, actor Actor, expenseID string, in ManagerApproveInput) (*domain.Request, []budget.Exceedance, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if err := guard(OpManager, req, actor); err != nil {
		return nil, nil, err
	}

	warnings := u.exceedances(req.Items, "manager approval")
	if u.policy.EnforceAtApproval && len(warnings) > 0 {
		return nil, nil, &budget.ExceededError{Exceeded: warnings}
	}

	now := time.Now().UTC()
	req.Status = domain.StatusManagerApproved
	req.ManagerApprovalDate = &now
	req.ManagerApproverID = &actor.ID
	req.ManagerNotes = in.Notes
	if err := u.repo.Save(ctx, req); err != nil {
		return nil, nil, err
	}
	u.publish(ctx, req, event.ActionManagerApproved, actor)
	return req, warnings, nil
}

// Process moves MANAGER_APPROVED -> PROCESSED and commits budget usage, all
// inside one transaction with the expense row locked. The budget check blocks
// here unless the override flag is set; the per-item increments run
// server-side so concurrent commits against a shared category sum correctly.
func (u *Usecase) Process(ctx context.Context, actor Actor, expenseID string, in ProcessInput) (*domain.Request, error) {
	var out *domain.Request
	err := u.uow.WithinExpenseTx(ctx, expenseID, func(r uow.Repos, req *domain.Request) error {
		if err := guard(OpProcess, req, actor); err != nil {
			return err
		}
		if in.TransactionDetails == "" {
			return domain.ErrTxDetailsRequired
		}

		if !in.OverrideBudgetLimit {
			if exceeded := u.exceedances(req.Items, "processing"); len(exceeded) > 0 {
				u.log.Warn("budget exceeded when processing expense",
					zap.String("request_number", req.RequestNumber),
					zap.Int("categories", len(exceeded)))
				return &budget.ExceededError{Exceeded: exceeded}
			}
		}

		for _, it := range req.Items {
			amount := it.AmountToApply()
			if err := r.Budgets.AddCategoryUsage(ctx, it.CategoryID, amount); err != nil {
				return err
			}
			if it.AllocationID == nil {
				u.log.Info("expense item carries no budget allocation, category ledger only",
					zap.Uint64("category_id", it.CategoryID),
					zap.String("request_number", req.RequestNumber))
				continue
			}
			if err := r.Budgets.AddAllocationUsage(ctx, *it.AllocationID, amount); err != nil {
				if errors.Is(err, budget.ErrAllocationNotFound) {
					u.log.Warn("bound budget allocation no longer exists",
						zap.Uint64("allocation_id", *it.AllocationID))
					continue
				}
				return err
			}
		}

		now := time.Now().UTC()
		req.Status = domain.StatusProcessed
		req.ProcessedDate = &now
		req.ProcessorID = &actor.ID
		req.TransactionDetails = in.TransactionDetails
		req.CashierNotes = in.Notes
		if err := r.Expenses.Save(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.publish(ctx, out, event.ActionProcessed, actor)
	return out, nil
}

// Complete moves PROCESSED -> COMPLETED: requester (or admin) only, a receipt
// must be on file when required, and the requester may hold at most
// maxOtherProcessed other PROCESSED requests.
func (u *Usecase) Complete(ctx context.Context, actor Actor, expenseID string) (*domain.Request, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := guard(OpComplete, req, actor); err != nil {
		return nil, err
	}
	if req.RequiresReceipt && len(req.Receipts) == 0 {
		return nil, domain.ErrReceiptRequired
	}

	processed, err := u.repo.CountByRequesterAndStatus(ctx, req.RequesterID, domain.StatusProcessed)
	if err != nil {
		return nil, err
	}
	// processed includes this request itself.
	if processed-1 > maxOtherProcessed {
		return nil, domain.ErrTooManyUncompleted
	}

	now := time.Now().UTC()
	req.Status = domain.StatusCompleted
	req.CompletedDate = &now
	if err := u.repo.Save(ctx, req); err != nil {
		return nil, err
	}
	u.publish(ctx, req, event.ActionCompleted, actor)
	return req, nil
}

// Reject terminates a request from any in-review status. The rejecting role
// must match the stage currently holding the request; a reason is mandatory.
func (u *Usecase) Reject(ctx context.Context, actor Actor, expenseID, reason string) (*domain.Request, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := guard(OpReject, req, actor); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	now := time.Now().UTC()
	req.Status = domain.StatusRejected
	req.RejectedDate = &now
	req.RejecterID = &actor.ID
	req.RejectionReason = reason
	if err := u.repo.Save(ctx, req); err != nil {
		return nil, err
	}
	u.publish(ctx, req, event.ActionRejected, actor)
	return req, nil
}

// AttachReceipt records an uploaded receipt against a PROCESSED request. File
// storage itself is the upload collaborator's concern; only the metadata
// lands here.
func (u *Usecase) AttachReceipt(ctx context.Context, actor Actor, expenseID string, in ReceiptInput) (*domain.Receipt, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := guard(OpAttachReceipt, req, actor); err != nil {
		return nil, err
	}

	rc := &domain.Receipt{
		ExpenseRequestID: req.ID,
		FileName:         in.FileName,
		FilePath:         in.FilePath,
		FileType:         in.FileType,
		FileSize:         in.FileSize,
		UploadedBy:       actor.ID,
	}
	if err := u.repo.CreateReceipt(ctx, rc); err != nil {
		return nil, err
	}
	u.publish(ctx, req, event.ActionReceiptUploaded, actor)
	return rc, nil
}

// Get returns one aggregate; non-privileged callers may only read their own.
func (u *Usecase) Get(ctx context.Context, actor Actor, expenseID string) (*domain.Request, error) {
	req, err := u.load(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !req.IsOwnedBy(actor.ID) && !user.IsPrivileged(actor.Role) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// List returns requests matching the filter; non-privileged callers are
// restricted to their own.
func (u *Usecase) List(ctx context.Context, actor Actor, f domain.ListFilter) ([]domain.Request, error) {
	if !user.IsPrivileged(actor.Role) {
		f.RequesterID = actor.ID
	}
	return u.repo.List(ctx, f)
}

// PendingCompletion lists the actor's PROCESSED requests awaiting completion.
func (u *Usecase) PendingCompletion(ctx context.Context, actor Actor) ([]domain.Request, error) {
	return u.repo.List(ctx, domain.ListFilter{
		RequesterID: actor.ID,
		Status:      domain.StatusProcessed,
	})
}

// CountByStatus tallies the actor's requests per status.
func (u *Usecase) CountByStatus(ctx context.Context, actor Actor) (*StatusCounts, error) {
	counts := &StatusCounts{}
	for _, pair := range []struct {
		st   domain.Status
		dest *int64
	}{
		{domain.StatusDraft, &counts.Draft},
		{domain.StatusSubmitted, &counts.Submitted},
		{domain.StatusAccountantApproved, &counts.AccountantApproved},
		{domain.StatusManagerApproved, &counts.ManagerApproved},
		{domain.StatusProcessed, &counts.Processed},
		{domain.StatusCompleted, &counts.Completed},
		{domain.StatusRejected, &counts.Rejected},
	} {
		n, err := u.repo.CountByRequesterAndStatus(ctx, actor.ID, pair.st)
		if err != nil {
			return nil, err
		}
		*pair.dest = n
		counts.Total += n
	}
	return counts, nil
}

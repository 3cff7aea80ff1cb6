package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Godwinki/oya-backend/internal/domain/notification"
	"github.com/Godwinki/oya-backend/internal/domain/user"
	"github.com/Godwinki/oya-backend/internal/event"
)

// fanOutLimit bounds concurrent notification writes during a role broadcast.
const fanOutLimit = 8

// Notifier turns workflow events into notification rows: one for the
// requester and, where a stage hands the request to a new audience, one per
// user holding the next-stage role.
type Notifier struct {
	notifications notification.Repository
	users         user.Repository
	log           *zap.Logger
}

func New(n notification.Repository, u user.Repository, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{notifications: n, users: u, log: log}
}

func content(ev event.ExpenseStatusChanged) (title, message string) {
	switch ev.Action {
	case event.ActionCreated:
		return "New Expense Request",
			fmt.Sprintf("A new expense request (%s) has been created and needs your review.", ev.RequestNumber)
	case event.ActionSubmitted:
		return "Expense Request Submitted",
			fmt.Sprintf("Expense request %s has been submitted for approval.", ev.RequestNumber)
	case event.ActionAccountantApproved:
		return "Expense Approved by Accountant",
			fmt.Sprintf("Expense request %s has been approved by an accountant and awaits manager approval.", ev.RequestNumber)
	case event.ActionManagerApproved:
		return "Expense Approved by Manager",
			fmt.Sprintf("Expense request %s has been approved by a manager and is ready for processing.", ev.RequestNumber)
	case event.ActionProcessed:
		return "Expense Processed",
			fmt.Sprintf("Your expense request %s has been processed by the cashier.", ev.RequestNumber)
	case event.ActionCompleted:
		return "Expense Completed",
			fmt.Sprintf("Your expense request %s has been marked as completed.", ev.RequestNumber)
	case event.ActionRejected:
		return "Expense Request Rejected",
			fmt.Sprintf("Expense request %s has been rejected.", ev.RequestNumber)
	default:
		return "Expense Update",
			fmt.Sprintf("There's an update on expense request %s.", ev.RequestNumber)
	}
}

// audience returns the roles to broadcast to at each hand-off stage; stages
// that only concern the requester return nil.
func audience(action event.Action) []string {
	switch action {
	case event.ActionSubmitted:
		return []string{user.RoleAccountant, user.RoleAdmin}
	case event.ActionAccountantApproved:
		return []string{user.RoleManager, user.RoleAdmin}
	case event.ActionManagerApproved:
		return []string{user.RoleCashier, user.RoleAdmin}
	}
	return nil
}

func (n *Notifier) OnExpenseStatusChanged(ctx context.Context, ev event.ExpenseStatusChanged) error {
	// Item/receipt additions are audit-only.
	if ev.Action == event.ActionItemAdded || ev.Action == event.ActionReceiptUploaded {
		return nil
	}

	targets := map[string]struct{}{ev.RequesterID: {}}
	if roles := audience(ev.Action); roles != nil {
		users, err := n.users.ListByRoles(ctx, roles)
		if err != nil {
			return fmt.Errorf("list audience: %w", err)
		}
		for _, u := range users {
			targets[u.ID] = struct{}{}
		}
	}

	title, message := content(ev)
	meta, _ := json.Marshal(map[string]any{
		"requestNumber": ev.RequestNumber,
		"status":        ev.Status,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for target := range targets {
		g.Go(func() error {
			return n.notifications.Create(gctx, &notification.Notification{
				UserID:       target,
				Title:        title,
				Message:      message,
				Type:         notification.KindExpense,
				Status:       notification.Unread,
				ResourceType: "ExpenseRequest",
				ResourceID:   ev.ExpenseID,
				CreatedBy:    ev.ActorID,
				Metadata:     string(meta),
			})
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("notification fan-out: %w", err)
	}

	n.log.Debug("expense notifications dispatched",
		zap.String("action", string(ev.Action)),
		zap.Int("recipients", len(targets)))
	return nil
}

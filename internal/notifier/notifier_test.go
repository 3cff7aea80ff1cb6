package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/notification"
	"github.com/Godwinki/oya-backend/internal/domain/user"
	"github.com/Godwinki/oya-backend/internal/event"
)

type notificationStore struct {
	mu   sync.Mutex
	rows []notification.Notification
	err  error
}

func (s *notificationStore) Create(ctx context.Context, n *notification.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *n)
	return nil
}

func (s *notificationStore) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return nil, nil
}

type userStore struct {
	byRole map[string][]user.User
	err    error
	calls  [][]string
}

func (s *userStore) Create(ctx context.Context, u *user.User) error { return nil }

func (s *userStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (s *userStore) ListByRoles(ctx context.Context, roles []string) ([]user.User, error) {
	s.calls = append(s.calls, roles)
	if s.err != nil {
		return nil, s.err
	}
	var out []user.User
	for _, role := range roles {
		out = append(out, s.byRole[role]...)
	}
	return out, nil
}

func (s *notificationStore) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rows))
	for _, row := range s.rows {
		ids = append(ids, row.UserID)
	}
	sort.Strings(ids)
	return ids
}

func submittedEvent() event.ExpenseStatusChanged {
	return event.ExpenseStatusChanged{
		ExpenseID:     "exp-1",
		RequestNumber: "EXP-2508-10042",
		Status:        expense.StatusSubmitted,
		Action:        event.ActionSubmitted,
		ActorID:       "requester-1",
		RequesterID:   "requester-1",
	}
}

func TestNotifier_SubmittedBroadcastsToAccountantsAndAdmins(t *testing.T) {
	notifs := &notificationStore{}
	users := &userStore{byRole: map[string][]user.User{
		user.RoleAccountant: {{ID: "acct-1"}, {ID: "acct-2"}},
		user.RoleAdmin:      {{ID: "admin-1"}},
	}}
	n := New(notifs, users, nil)

	if err := n.OnExpenseStatusChanged(context.Background(), submittedEvent()); err != nil {
		t.Fatalf("OnExpenseStatusChanged: %v", err)
	}

	want := []string{"acct-1", "acct-2", "admin-1", "requester-1"}
	got := notifs.recipients()
	if len(got) != len(want) {
		t.Fatalf("recipients = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recipients = %v, want %v", got, want)
		}
	}
	if len(users.calls) != 1 {
		t.Fatalf("ListByRoles calls = %d", len(users.calls))
	}
	roles := users.calls[0]
	if len(roles) != 2 || roles[0] != user.RoleAccountant || roles[1] != user.RoleAdmin {
		t.Fatalf("audience roles = %v", roles)
	}
}

func TestNotifier_RequesterHoldingAudienceRoleIsNotDuplicated(t *testing.T) {
	notifs := &notificationStore{}
	users := &userStore{byRole: map[string][]user.User{
		user.RoleAccountant: {{ID: "requester-1"}},
	}}
	n := New(notifs, users, nil)

	if err := n.OnExpenseStatusChanged(context.Background(), submittedEvent()); err != nil {
		t.Fatalf("OnExpenseStatusChanged: %v", err)
	}
	if got := notifs.recipients(); len(got) != 1 || got[0] != "requester-1" {
		t.Fatalf("recipients = %v, want single requester row", got)
	}
}

func TestNotifier_ProcessedOnlyNotifiesRequester(t *testing.T) {
	notifs := &notificationStore{}
	users := &userStore{}
	n := New(notifs, users, nil)

	ev := submittedEvent()
	ev.Action = event.ActionProcessed
	ev.Status = expense.StatusProcessed
	ev.ActorID = "cashier-1"

	if err := n.OnExpenseStatusChanged(context.Background(), ev); err != nil {
		t.Fatalf("OnExpenseStatusChanged: %v", err)
	}
	if len(users.calls) != 0 {
		t.Fatalf("expected no role lookup, got %v", users.calls)
	}
	if got := notifs.recipients(); len(got) != 1 || got[0] != "requester-1" {
		t.Fatalf("recipients = %v", got)
	}
	row := notifs.rows[0]
	if row.Title != "Expense Processed" {
		t.Fatalf("title = %q", row.Title)
	}
	if !strings.Contains(row.Message, "EXP-2508-10042") {
		t.Fatalf("message missing request number: %q", row.Message)
	}
	if row.CreatedBy != "cashier-1" {
		t.Fatalf("created_by = %q", row.CreatedBy)
	}
}

func TestNotifier_SkipsItemAndReceiptEvents(t *testing.T) {
	for _, action := range []event.Action{event.ActionItemAdded, event.ActionReceiptUploaded} {
		notifs := &notificationStore{}
		n := New(notifs, &userStore{}, nil)

		ev := submittedEvent()
		ev.Action = action
		if err := n.OnExpenseStatusChanged(context.Background(), ev); err != nil {
			t.Fatalf("%s: %v", action, err)
		}
		if len(notifs.rows) != 0 {
			t.Fatalf("%s produced %d notifications", action, len(notifs.rows))
		}
	}
}

func TestNotifier_RowShape(t *testing.T) {
	notifs := &notificationStore{}
	n := New(notifs, &userStore{}, nil)

	ev := submittedEvent()
	ev.Action = event.ActionRejected
	ev.Status = expense.StatusRejected
	if err := n.OnExpenseStatusChanged(context.Background(), ev); err != nil {
		t.Fatalf("OnExpenseStatusChanged: %v", err)
	}

	row := notifs.rows[0]
	if row.Type != notification.KindExpense || row.Status != notification.Unread {
		t.Fatalf("type/status = %q/%q", row.Type, row.Status)
	}
	if row.ResourceType != "ExpenseRequest" || row.ResourceID != "exp-1" {
		t.Fatalf("resource = %q/%q", row.ResourceType, row.ResourceID)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(row.Metadata), &meta); err != nil {
		t.Fatalf("metadata not JSON: %v", err)
	}
	if meta["requestNumber"] != "EXP-2508-10042" || meta["status"] != string(expense.StatusRejected) {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestNotifier_AudienceLookupFailureSurfaces(t *testing.T) {
	users := &userStore{err: errors.New("db gone")}
	n := New(&notificationStore{}, users, nil)

	err := n.OnExpenseStatusChanged(context.Background(), submittedEvent())
	if err == nil || !strings.Contains(err.Error(), "list audience") {
		t.Fatalf("err = %v", err)
	}
}

func TestNotifier_CreateFailureSurfaces(t *testing.T) {
	notifs := &notificationStore{err: errors.New("insert failed")}
	n := New(notifs, &userStore{}, nil)

	err := n.OnExpenseStatusChanged(context.Background(), submittedEvent())
	if err == nil || !strings.Contains(err.Error(), "notification fan-out") {
		t.Fatalf("err = %v", err)
	}
}

package event

import (
	"time"

	"github.com/Godwinki/oya-backend/internal/domain/expense"
)

// Action identifies the workflow step that produced an event. Values double
// as notification/audit keys, so they mirror the status names where one
// exists.
type Action string

const (
	ActionCreated            Action = "CREATED"
	ActionItemAdded          Action = "ITEM_ADDED"
	ActionSubmitted          Action = "SUBMITTED"
	ActionAccountantApproved Action = "ACCOUNTANT_APPROVED"
	ActionManagerApproved    Action = "MANAGER_APPROVED"
	ActionProcessed          Action = "PROCESSED"
	ActionCompleted          Action = "COMPLETED"
	ActionRejected           Action = "REJECTED"
	ActionReceiptUploaded    Action = "RECEIPT_UPLOADED"
)

// ExpenseStatusChanged is published after a workflow transition commits.
// Collaborators (notifier, audit recorder, message queue) subscribe; the core
// never talks to them directly.
type ExpenseStatusChanged struct {
	ExpenseID     string         `json:"expense_id"`
	RequestNumber string         `json:"request_number"`
	Status        expense.Status `json:"status"`
	Action        Action         `json:"action"`
	ActorID       string         `json:"actor_id"`
	ActorIP       string         `json:"actor_ip,omitempty"`
	RequesterID   string         `json:"requester_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

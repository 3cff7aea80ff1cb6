package audit

import (
	"context"
	"fmt"

	"github.com/Godwinki/oya-backend/internal/domain/activity"
	"github.com/Godwinki/oya-backend/internal/event"
)

// Recorder appends one activity-log entry per workflow event.
type Recorder struct {
	activities activity.Repository
}

func NewRecorder(a activity.Repository) *Recorder {
	return &Recorder{activities: a}
}

func details(ev event.ExpenseStatusChanged) (action, text string) {
	switch ev.Action {
	case event.ActionCreated:
		return activity.ActionCreate, fmt.Sprintf("Created expense request: %s", ev.RequestNumber)
	case event.ActionItemAdded:
		return activity.ActionUpdate, fmt.Sprintf("Added item to expense request: %s", ev.RequestNumber)
	case event.ActionSubmitted:
		return activity.ActionUpdate, fmt.Sprintf("Submitted expense request: %s", ev.RequestNumber)
	case event.ActionAccountantApproved:
		return activity.ActionUpdate, fmt.Sprintf("Accountant approved expense request: %s", ev.RequestNumber)
	case event.ActionManagerApproved:
		return activity.ActionUpdate, fmt.Sprintf("Manager approved expense request: %s", ev.RequestNumber)
	case event.ActionProcessed:
		return activity.ActionUpdate, fmt.Sprintf("Processed expense request: %s and updated budget usage", ev.RequestNumber)
	case event.ActionCompleted:
		return activity.ActionUpdate, fmt.Sprintf("Marked expense request as completed: %s", ev.RequestNumber)
	case event.ActionRejected:
		return activity.ActionUpdate, fmt.Sprintf("Rejected expense request: %s", ev.RequestNumber)
	case event.ActionReceiptUploaded:
		return activity.ActionCreate, fmt.Sprintf("Uploaded receipt for expense request: %s", ev.RequestNumber)
	default:
		return activity.ActionUpdate, fmt.Sprintf("Updated expense request: %s", ev.RequestNumber)
	}
}

func (r *Recorder) OnExpenseStatusChanged(ctx context.Context, ev event.ExpenseStatusChanged) error {
	action, text := details(ev)
	return r.activities.Create(ctx, &activity.Entry{
		UserID:    ev.ActorID,
		Action:    action,
		Details:   text,
		IPAddress: ev.ActorIP,
	})
}

package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindExpense Kind = "EXPENSE"
	KindSystem  Kind = "SYSTEM"
)

type ReadStatus string

const (
	Unread ReadStatus = "UNREAD"
	Read   ReadStatus = "READ"
)

// Notification is an ephemeral read-model row created as a workflow side
// effect; it is never authoritative state.
type Notification struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID       string     `gorm:"size:36;not null;index" json:"user_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Type         Kind       `gorm:"size:20;default:'SYSTEM'" json:"type"`
	Status       ReadStatus `gorm:"size:10;default:'UNREAD'" json:"status"`
	ResourceType string     `gorm:"size:50" json:"resource_type,omitempty"`
	ResourceID   string     `gorm:"size:36" json:"resource_id,omitempty"`
	CreatedBy    string     `gorm:"size:36" json:"created_by,omitempty"`
	Metadata     string     `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
}

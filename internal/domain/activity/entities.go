package activity

import (
	"context"
	"time"
)

const (
	ActionCreate = "CREATE"
	ActionRead   = "READ"
	ActionUpdate = "UPDATE"
)

// Entry is one append-only audit record. Rows are written for every mutating
// workflow action and never updated or deleted.
type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "activity_logs" }

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
}

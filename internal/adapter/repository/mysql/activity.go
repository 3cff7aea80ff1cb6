package mysql

import (
	"context"

	"gorm.io/gorm"

	activityDomain "github.com/Godwinki/oya-backend/internal/domain/activity"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, e *activityDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]activityDomain.Entry, error) {
	var out []activityDomain.Entry
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

package postgres

import (
	"context"
	"errors"
	"time"

	reminderDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/reminder"
	"github.com/frahmantamala/budgetwise/internal/reminder"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) reminder.Repository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *reminderDatamodel.Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *ReminderRepository) List(ctx context.Context, userID int64, activeOnly bool) ([]*reminderDatamodel.Reminder, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var reminders []*reminderDatamodel.Reminder
	err := q.Order("created_at DESC").Order("id DESC").Find(&reminders).Error
	return reminders, err
}

func (r *ReminderRepository) Dismiss(ctx context.Context, userID, id int64, at time.Time) (*reminderDatamodel.Reminder, error) {
	var rem reminderDatamodel.Reminder

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&reminderDatamodel.Reminder{}).
			Where("id = ? AND user_id = ? AND dismissed_at IS NULL", id, userID).
			Updates(map[string]interface{}{
				"is_active":    false,
				"dismissed_at": at,
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&rem).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reminder.ErrNotFound
			}
			return err
		}
		if res.RowsAffected != 1 {
			return reminder.ErrAlreadyDismissed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

package reminder

import (
	"time"

	reminderDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/reminder"
)

const (
	TypeBudgetAlert = "budget_alert"
	TypeBillDue     = "bill_due"
	TypeCustom      = "custom"
)

var Types = []string{TypeBudgetAlert, TypeBillDue, TypeCustom}

// Reminder is a free-standing notification. DismissedAt is written once.
type Reminder struct {
	ID           int64
	UserID       int64
	Message      string
	ReminderType string
	IsActive     bool
	DismissedAt  *time.Time
	CreatedAt    time.Time
}

func (r *Reminder) IsDismissed() bool {
	return r.DismissedAt != nil
}

func (r *Reminder) ToResponse() ReminderResponse {
	return ReminderResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Message:      r.Message,
		ReminderType: r.ReminderType,
		IsActive:     r.IsActive,
		DismissedAt:  r.DismissedAt,
		CreatedAt:    r.CreatedAt,
	}
}

func FromDataModel(r *reminderDatamodel.Reminder) *Reminder {
	return &Reminder{
		ID:           r.ID,
		UserID:       r.UserID,
		Message:      r.Message,
		ReminderType: r.ReminderType,
		IsActive:     r.IsActive,
		DismissedAt:  r.DismissedAt,
		CreatedAt:    r.CreatedAt,
	}
}

package reminder

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
)

type CreateReminderDTO struct {
	Message      string `json:"message"`
	ReminderType string `json:"reminder_type"`
}

func (dto *CreateReminderDTO) Validate() *errors.AppError {
	dto.Message = strings.TrimSpace(dto.Message)
	if dto.ReminderType == "" {
		dto.ReminderType = TypeCustom
	}

	v := validation.NewValidator()
	v.Field("message", dto.Message).
		Required().
		MaxLength(500)
	v.Field("reminder_type", dto.ReminderType).
		OneOf(errors.ErrCodeInvalidReminder, Types...)
	return v.Validate()
}

type ReminderResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Message      string     `json:"message"`
	ReminderType string     `json:"reminder_type"`
	IsActive     bool       `json:"is_active"`
	DismissedAt  *time.Time `json:"dismissed_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RemindersResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Count     int                `json:"count"`
}

package reminder

import "time"

type Reminder struct {
	ID           int64      `gorm:"primaryKey"`
	UserID       int64      `gorm:"column:user_id;not null;index"`
	Message      string     `gorm:"column:message;not null"`
	ReminderType string     `gorm:"column:reminder_type;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	DismissedAt  *time.Time `gorm:"column:dismissed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Reminder) TableName() string {
	return "reminders"
}

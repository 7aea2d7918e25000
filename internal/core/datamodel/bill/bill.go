package bill

import (
	"time"

	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
)

type Bill struct {
	ID            int64           `gorm:"primaryKey"`
	UserID        int64           `gorm:"column:user_id;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Category      string          `gorm:"column:category;not null"`
	DueDate       datex.Date      `gorm:"column:due_date;not null;index"`
	RecurringType string          `gorm:"column:recurring_type;not null"`
	PaidDate      *datex.Date     `gorm:"column:paid_date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillPayment is never updated after insert; BillID is nulled when the bill
// it came from is deleted.
type BillPayment struct {
	ID              int64           `gorm:"primaryKey"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	BillID          *int64          `gorm:"column:bill_id;index"`
	BillName        string          `gorm:"column:bill_name;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Category        string          `gorm:"column:category;not null"`
	OriginalDueDate datex.Date      `gorm:"column:original_due_date;not null"`
	PaidDate        datex.Date      `gorm:"column:paid_date;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (BillPayment) TableName() string {
	return "bill_payments"
}

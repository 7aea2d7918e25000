package expense

import (
	"time"

	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `gorm:"primaryKey"`
	UserID      int64           `gorm:"column:user_id;not null;index"`
	CategoryID  int64           `gorm:"column:category_id;not null;index"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	ExpenseDate datex.Date      `gorm:"column:expense_date;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

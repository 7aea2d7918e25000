package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID             int64           `gorm:"primaryKey"`
	UserID         int64           `gorm:"column:user_id;not null;uniqueIndex:idx_budgets_user_category"`
	CategoryID     int64           `gorm:"column:category_id;not null;uniqueIndex:idx_budgets_user_category"`
	BudgetedAmount decimal.Decimal `gorm:"column:budgeted_amount;type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}

package budget

import (
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateBudgetDTO struct {
	CategoryID     int64           `json:"category_id"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
}

func (dto *CreateBudgetDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("category_id", dto.CategoryID).
		Required().
		MinInt(1, errors.ErrCodeInvalidCategory)
	v.Field("budgeted_amount", dto.BudgetedAmount).
		Amount(errors.ErrCodeInvalidAmount)
	return v.Validate()
}

type BudgetResponse struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	CategoryID     int64           `json:"category_id"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	SpentAmount    decimal.Decimal `json:"spent_amount"`
	Variance       decimal.Decimal `json:"variance"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
	IsOverBudget   bool            `json:"is_over_budget"`
	CreatedAt      time.Time       `json:"created_at"`
}

type BudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

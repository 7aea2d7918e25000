package expense

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO carries expense_date as text so a malformed date can be
// reported with its own message.
type CreateExpenseDTO struct {
	CategoryID  int64           `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
}

// Validate checks the payload and returns the parsed expense date.
func (dto *CreateExpenseDTO) Validate() (datex.Date, *errors.AppError) {
	dto.Description = strings.TrimSpace(dto.Description)

	v := validation.NewValidator()
	v.Field("category_id", dto.CategoryID).
		Required().
		MinInt(1, errors.ErrCodeInvalidCategory)
	v.Field("description", dto.Description).
		Required().
		MaxLength(500)
	v.Field("amount", dto.Amount).
		Amount(errors.ErrCodeInvalidAmount)
	v.Field("expense_date", dto.ExpenseDate).
		Required()
	if appErr := v.Validate(); appErr != nil {
		return datex.Date{}, appErr
	}

	date, err := datex.Parse(dto.ExpenseDate)
	if err != nil {
		return datex.Date{}, errors.ErrInvalidDateFormat
	}
	return date, nil
}

type ExpenseResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate datex.Date      `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ExpensesResponse struct {
	Expenses    []ExpenseResponse `json:"expenses"`
	Count       int               `json:"count"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

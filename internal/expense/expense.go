package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

// Expense is a single ledger entry. Entries are never amended once written.
type Expense struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Description string
	Amount      decimal.Decimal
	ExpenseDate datex.Date
	CreatedAt   time.Time
}

// Filter narrows a ledger query. Zero values mean "no constraint".
type Filter struct {
	CategoryID int64
	StartDate  datex.Date
	EndDate    datex.Date
	Limit      int
}

// Total sums the amounts of exactly the given expenses.
func Total(expenses []*Expense) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return money.Sum(amounts...)
}

func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		Amount:      money.Round(e.Amount),
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

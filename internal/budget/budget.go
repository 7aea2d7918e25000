package budget

import (
	"time"

	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

type Budget struct {
	ID             int64
	UserID         int64
	CategoryID     int64
	BudgetedAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Metrics are derived from the expense ledger on every read.
type Metrics struct {
	SpentAmount    decimal.Decimal
	Variance       decimal.Decimal
	PercentageUsed decimal.Decimal
	IsOverBudget   bool
}

// ComputeMetrics derives utilisation for a budget given the lifetime spend
// in its category. PercentageUsed is zero when nothing was budgeted.
func ComputeMetrics(budgeted, spent decimal.Decimal) Metrics {
	return Metrics{
		SpentAmount:    spent,
		Variance:       spent.Sub(budgeted),
		PercentageUsed: money.Percent(spent, budgeted),
		IsOverBudget:   spent.GreaterThan(budgeted),
	}
}

func (b *Budget) Metrics(spent decimal.Decimal) Metrics {
	return ComputeMetrics(b.BudgetedAmount, spent)
}

func (b *Budget) ToResponse(spent decimal.Decimal) BudgetResponse {
	m := b.Metrics(spent)
	return BudgetResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		CategoryID:     b.CategoryID,
		BudgetedAmount: money.Round(b.BudgetedAmount),
		SpentAmount:    money.Round(m.SpentAmount),
		Variance:       money.Round(m.Variance),
		PercentageUsed: money.Round(m.PercentageUsed),
		IsOverBudget:   m.IsOverBudget,
		CreatedAt:      b.CreatedAt,
	}
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:             b.ID,
		UserID:         b.UserID,
		CategoryID:     b.CategoryID,
		BudgetedAmount: b.BudgetedAmount,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func FromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:             b.ID,
		UserID:         b.UserID,
		CategoryID:     b.CategoryID,
		BudgetedAmount: b.BudgetedAmount,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

package postgres

import (
	"context"

	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

// Create saves a new expense to the database
func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *ExpenseRepository) Query(ctx context.Context, userID int64, filter expense.Filter) ([]*expenseDatamodel.Expense, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.StartDate.IsZero() {
		q = q.Where("expense_date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		q = q.Where("expense_date <= ?", filter.EndDate)
	}

	q = q.Order("expense_date DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var expenses []*expenseDatamodel.Expense
	err := q.Find(&expenses).Error
	return expenses, err
}

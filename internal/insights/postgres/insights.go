// Package postgres reads the dashboard and insights aggregates with plain
// SQL through sqlx. Queries use ? placeholders and are rebound per driver.
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/frahmantamala/budgetwise/internal/bill"
	"github.com/frahmantamala/budgetwise/internal/budget"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"github.com/frahmantamala/budgetwise/internal/insights"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type InsightsRepository struct {
	db *sqlx.DB
}

func NewInsightsRepository(db *sqlx.DB) insights.Repository {
	return &InsightsRepository{db: db}
}

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
}

type budgetRow struct {
	ID             int64           `db:"id"`
	UserID         int64           `db:"user_id"`
	CategoryID     int64           `db:"category_id"`
	BudgetedAmount decimal.Decimal `db:"budgeted_amount"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type categoryTotalRow struct {
	CategoryID int64           `db:"category_id"`
	Total      decimal.Decimal `db:"total"`
}

type expenseRow struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	CategoryID  int64           `db:"category_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	ExpenseDate datex.Date      `db:"expense_date"`
	CreatedAt   time.Time       `db:"created_at"`
}

type billRow struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Name          string          `db:"name"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
	DueDate       datex.Date      `db:"due_date"`
	RecurringType string          `db:"recurring_type"`
	PaidDate      *datex.Date     `db:"paid_date"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type categorySpendRow struct {
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
}

type dailySpendRow struct {
	Date   datex.Date      `db:"expense_date"`
	Amount decimal.Decimal `db:"amount"`
}

// User returns nil when the user does not exist.
func (r *InsightsRepository) User(ctx context.Context, userID int64) (*insights.UserSummary, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT id, username, email FROM users WHERE id = ?`), userID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &insights.UserSummary{ID: row.ID, Username: row.Username, Email: row.Email}, nil
}

func (r *InsightsRepository) Budgets(ctx context.Context, userID int64) ([]budget.WithSpent, error) {
	var rows []budgetRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, user_id, category_id, budgeted_amount, created_at, updated_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY id`), userID)
	if err != nil {
		return nil, err
	}

	var totals []categoryTotalRow
	err = r.db.SelectContext(ctx, &totals, r.db.Rebind(`
		SELECT category_id, COALESCE(SUM(amount), 0) AS total
		FROM expenses
		WHERE user_id = ?
		GROUP BY category_id`), userID)
	if err != nil {
		return nil, err
	}
	spent := make(map[int64]decimal.Decimal, len(totals))
	for _, t := range totals {
		spent[t.CategoryID] = t.Total
	}

	result := make([]budget.WithSpent, 0, len(rows))
	for _, row := range rows {
		s, ok := spent[row.CategoryID]
		if !ok {
			s = decimal.Zero
		}
		result = append(result, budget.WithSpent{
			Budget: &budget.Budget{
				ID:             row.ID,
				UserID:         row.UserID,
				CategoryID:     row.CategoryID,
				BudgetedAmount: row.BudgetedAmount,
				CreatedAt:      row.CreatedAt,
				UpdatedAt:      row.UpdatedAt,
			},
			Spent: s,
		})
	}
	return result, nil
}

func (r *InsightsRepository) RecentExpenses(ctx context.Context, userID int64, from datex.Date, limit int) ([]*expense.Expense, error) {
	var rows []expenseRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, user_id, category_id, description, amount, expense_date, created_at
		FROM expenses
		WHERE user_id = ? AND expense_date >= ?
		ORDER BY expense_date DESC, id DESC
		LIMIT ?`), userID, from, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*expense.Expense, 0, len(rows))
	for _, row := range rows {
		result = append(result, &expense.Expense{
			ID:          row.ID,
			UserID:      row.UserID,
			CategoryID:  row.CategoryID,
			Description: row.Description,
			Amount:      row.Amount,
			ExpenseDate: row.ExpenseDate,
			CreatedAt:   row.CreatedAt,
		})
	}
	return result, nil
}

func (r *InsightsRepository) SumExpenses(ctx context.Context, userID int64, from, to datex.Date) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?`
	args := []interface{}{userID}
	query, args = dateBounds(query, args, "expense_date", from, to)

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(query), args...); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *InsightsRepository) SumBudgeted(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COALESCE(SUM(budgeted_amount), 0) FROM budgets WHERE user_id = ?`), userID)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *InsightsRepository) UnpaidBills(ctx context.Context, userID int64, from, to datex.Date) ([]*bill.Bill, error) {
	query := `
		SELECT id, user_id, name, amount, category, due_date, recurring_type, paid_date, created_at, updated_at
		FROM bills
		WHERE user_id = ? AND paid_date IS NULL`
	args := []interface{}{userID}
	query, args = dateBounds(query, args, "due_date", from, to)
	query += ` ORDER BY due_date ASC, id ASC`

	var rows []billRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	result := make([]*bill.Bill, 0, len(rows))
	for _, row := range rows {
		result = append(result, &bill.Bill{
			ID:            row.ID,
			UserID:        row.UserID,
			Name:          row.Name,
			Amount:        row.Amount,
			Category:      row.Category,
			DueDate:       row.DueDate,
			RecurringType: row.RecurringType,
			PaidDate:      row.PaidDate,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
	}
	return result, nil
}

// CategorySpending covers every category the user has spent in, lifetime.
func (r *InsightsRepository) CategorySpending(ctx context.Context, userID int64) ([]insights.CategorySpend, error) {
	var rows []categorySpendRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT c.name AS category, COALESCE(SUM(e.amount), 0) AS total
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?
		GROUP BY c.name
		ORDER BY c.name`), userID)
	if err != nil {
		return nil, err
	}

	result := make([]insights.CategorySpend, 0, len(rows))
	for _, row := range rows {
		result = append(result, insights.CategorySpend{Category: row.Category, Total: row.Total})
	}
	return result, nil
}

func (r *InsightsRepository) DailySpending(ctx context.Context, userID int64, from datex.Date) ([]insights.DailySpend, error) {
	var rows []dailySpendRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT expense_date, COALESCE(SUM(amount), 0) AS amount
		FROM expenses
		WHERE user_id = ? AND expense_date >= ?
		GROUP BY expense_date
		ORDER BY expense_date`), userID, from)
	if err != nil {
		return nil, err
	}

	result := make([]insights.DailySpend, 0, len(rows))
	for _, row := range rows {
		result = append(result, insights.DailySpend{Date: row.Date, Amount: row.Amount})
	}
	return result, nil
}

// dateBounds appends inclusive bounds on column; zero dates are skipped.
func dateBounds(query string, args []interface{}, column string, from, to datex.Date) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(query)
	if !from.IsZero() {
		b.WriteString(" AND " + column + " >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		b.WriteString(" AND " + column + " <= ?")
		args = append(args, to)
	}
	return b.String(), args
}

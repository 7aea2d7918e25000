package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/budgetwise/internal/budget"
	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*budgetDatamodel.Budget, error) {
	var budgets []*budgetDatamodel.Budget
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) GetByUserAndCategory(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Create relies on idx_budgets_user_category; the gorm session must be
// opened with TranslateError so the violation surfaces as ErrDuplicatedKey.
func (r *BudgetRepository) Create(ctx context.Context, b *budgetDatamodel.Budget) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return budget.ErrDuplicate
	}
	return err
}

type categoryTotal struct {
	CategoryID int64
	Total      decimal.Decimal
}

func (r *BudgetRepository) SpentByCategory(ctx context.Context, userID int64) (map[int64]decimal.Decimal, error) {
	var rows []categoryTotal
	err := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.CategoryID] = row.Total
	}
	return totals, nil
}

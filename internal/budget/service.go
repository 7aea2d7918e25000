package budget

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/budgetwise/internal"
	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
	"github.com/shopspring/decimal"
)

// ErrDuplicate is returned by repositories when the (user, category) unique
// index rejects an insert.
var ErrDuplicate = stderrors.New("budget already exists for user and category")

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*budgetDatamodel.Budget, error)
	GetByUserAndCategory(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error)
	Create(ctx context.Context, budget *budgetDatamodel.Budget) error
	// SpentByCategory sums the user's lifetime expenses per category.
	SpentByCategory(ctx context.Context, userID int64) (map[int64]decimal.Decimal, error)
}

type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// WithSpent pairs a budget with the spend it is measured against.
type WithSpent struct {
	Budget *Budget
	Spent  decimal.Decimal
}

func (w WithSpent) ToResponse() BudgetResponse {
	return w.Budget.ToResponse(w.Spent)
}

type Service struct {
	repo       Repository
	categories CategoryChecker
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]WithSpent, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list budgets", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch budgets", err)
	}

	spent, err := s.repo.SpentByCategory(ctx, userID)
	if err != nil {
		s.logger.Error("failed to sum expenses", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch budgets", err)
	}

	result := make([]WithSpent, 0, len(records))
	for _, r := range records {
		result = append(result, WithSpent{
			Budget: FromDataModel(r),
			Spent:  spent[r.CategoryID],
		})
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateBudgetDTO) (WithSpent, error) {
	if appErr := dto.Validate(); appErr != nil {
		return WithSpent{}, appErr
	}

	ok, err := s.categories.Exists(ctx, dto.CategoryID)
	if err != nil {
		return WithSpent{}, err
	}
	if !ok {
		return WithSpent{}, errors.ErrCategoryNotFound
	}

	existing, err := s.repo.GetByUserAndCategory(ctx, userID, dto.CategoryID)
	if err != nil {
		s.logger.Error("failed to look up budget", "error", err, "user_id", userID, "category_id", dto.CategoryID)
		return WithSpent{}, errors.NewInternalError("Failed to create budget", err)
	}
	if existing != nil {
		return WithSpent{}, errors.ErrBudgetExists
	}

	record := &budgetDatamodel.Budget{
		UserID:         userID,
		CategoryID:     dto.CategoryID,
		BudgetedAmount: dto.BudgetedAmount,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// lost a race against a concurrent create
		if stderrors.Is(err, ErrDuplicate) {
			return WithSpent{}, errors.ErrBudgetExists
		}
		s.logger.Error("failed to create budget", "error", err, "user_id", userID)
		return WithSpent{}, errors.NewInternalError("Failed to create budget", err)
	}

	spent, err := s.repo.SpentByCategory(ctx, userID)
	if err != nil {
		return WithSpent{}, errors.NewInternalError("Failed to create budget", err)
	}

	s.logger.Info("budget created", "budget_id", record.ID, "user_id", userID, "category_id", record.CategoryID)
	return WithSpent{Budget: FromDataModel(record), Spent: spent[record.CategoryID]}, nil
}

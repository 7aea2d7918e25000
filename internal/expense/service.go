package expense

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	"github.com/frahmantamala/budgetwise/internal/core/events"
)

// Repository defines the data access methods for expenses
type Repository interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	// Query returns the user's expenses matching filter, newest expense_date first.
	Query(ctx context.Context, userID int64, filter Filter) ([]*expenseDatamodel.Expense, error)
}

// CategoryChecker confirms a category exists before an expense is filed under it.
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles expense business logic
type Service struct {
	repo       Repository
	categories CategoryChecker
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewService creates a new expense service
func NewService(repo Repository, categories CategoryChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateExpense records a new ledger entry for userID.
func (s *Service) CreateExpense(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error) {
	expenseDate, appErr := dto.Validate()
	if appErr != nil {
		s.logger.Debug("expense validation failed", "error", appErr, "user_id", userID)
		return nil, appErr
	}

	ok, err := s.categories.Exists(ctx, dto.CategoryID)
	if err != nil {
		s.logger.Error("failed to check category", "error", err, "category_id", dto.CategoryID)
		return nil, err
	}
	if !ok {
		return nil, errors.ErrCategoryNotFound
	}

	expense := &Expense{
		UserID:      userID,
		CategoryID:  dto.CategoryID,
		Description: dto.Description,
		Amount:      dto.Amount,
		ExpenseDate: expenseDate,
		CreatedAt:   time.Now(),
	}

	record := ToDataModel(expense)
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to create expense", err)
	}
	expense = FromDataModel(record)

	s.logger.Info("expense created",
		"expense_id", expense.ID,
		"user_id", userID,
		"category_id", expense.CategoryID,
		"amount", expense.Amount.String())

	event := events.NewExpenseCreatedEvent(userID, expense.ID, expense.CategoryID, expense.Amount.StringFixed(2), expense.ExpenseDate.String())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}

	return expense, nil
}

// QueryExpenses returns the filtered ledger together with the total of the
// returned rows.
func (s *Service) QueryExpenses(ctx context.Context, userID int64, filter Filter) ([]*Expense, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return nil, errors.NewValidationError("end_date must not be before start_date", errors.ErrCodeInvalidDate)
	}

	records, err := s.repo.Query(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to query expenses", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch expenses", err)
	}

	expenses := make([]*Expense, 0, len(records))
	for _, r := range records {
		expenses = append(expenses, FromDataModel(r))
	}
	return expenses, nil
}

package budget_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/budget"
	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
)

type mockBudgetRepository struct {
	budgets   []*budgetDatamodel.Budget
	spent     map[int64]decimal.Decimal
	createErr error
	nextID    int64
}

func (m *mockBudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*budgetDatamodel.Budget, error) {
	var out []*budgetDatamodel.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBudgetRepository) GetByUserAndCategory(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error) {
	for _, b := range m.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockBudgetRepository) Create(ctx context.Context, b *budgetDatamodel.Budget) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	b.ID = m.nextID
	m.budgets = append(m.budgets, b)
	return nil
}

func (m *mockBudgetRepository) SpentByCategory(ctx context.Context, userID int64) (map[int64]decimal.Decimal, error) {
	return m.spent, nil
}

type categorySet map[int64]bool

func (c categorySet) Exists(ctx context.Context, id int64) (bool, error) {
	return c[id], nil
}

var _ = Describe("Budget Service", func() {
	var (
		repo    *mockBudgetRepository
		service *budget.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockBudgetRepository{spent: map[int64]decimal.Decimal{1: d("80")}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = budget.NewService(repo, categorySet{1: true, 2: true}, logger)
		ctx = context.Background()
	})

	It("creates a budget and attaches current spend", func() {
		created, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Budget.ID).To(Equal(int64(1)))
		Expect(created.Spent.Equal(d("80"))).To(BeTrue())
	})

	It("reports zero spend for a category without expenses", func() {
		created, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 2, BudgetedAmount: d("100")})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Spent.IsZero()).To(BeTrue())
	})

	It("rejects a second budget for the same category", func() {
		_, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("200")})
		Expect(err).To(MatchError(apperrors.ErrBudgetExists))
		Expect(repo.budgets).To(HaveLen(1))
	})

	It("maps a unique index violation to a conflict", func() {
		repo.createErr = budget.ErrDuplicate

		_, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		Expect(err).To(MatchError(apperrors.ErrBudgetExists))
	})

	It("allows the same category for a different user", func() {
		_, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, 6, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns not found for an unknown category", func() {
		_, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 9, BudgetedAmount: d("100")})
		Expect(err).To(MatchError(apperrors.ErrCategoryNotFound))
	})

	It("rejects a non-positive amount", func() {
		_, err := service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("0")})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
	})

	It("lists only the caller's budgets", func() {
		_, _ = service.Create(ctx, 5, budget.CreateBudgetDTO{CategoryID: 1, BudgetedAmount: d("100")})
		_, _ = service.Create(ctx, 6, budget.CreateBudgetDTO{CategoryID: 2, BudgetedAmount: d("100")})

		list, err := service.List(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].ToResponse().IsOverBudget).To(BeFalse())
	})
})

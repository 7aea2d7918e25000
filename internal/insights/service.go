package insights

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/bill"
	"github.com/frahmantamala/budgetwise/internal/budget"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Repository runs the aggregate reads. A zero datex.Date bound is open.
type Repository interface {
	User(ctx context.Context, userID int64) (*UserSummary, error)
	Budgets(ctx context.Context, userID int64) ([]budget.WithSpent, error)
	RecentExpenses(ctx context.Context, userID int64, from datex.Date, limit int) ([]*expense.Expense, error)
	SumExpenses(ctx context.Context, userID int64, from, to datex.Date) (decimal.Decimal, error)
	SumBudgeted(ctx context.Context, userID int64) (decimal.Decimal, error)
	// UnpaidBills returns unpaid bills due within [from, to], by due date.
	UnpaidBills(ctx context.Context, userID int64, from, to datex.Date) ([]*bill.Bill, error)
	CategorySpending(ctx context.Context, userID int64) ([]CategorySpend, error)
	DailySpending(ctx context.Context, userID int64, from datex.Date) ([]DailySpend, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Today() datex.Date {
	return datex.Today(s.now)
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	p := NewPeriod(s.Today())
	d := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.User, err = s.repo.User(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Budgets, err = s.repo.Budgets(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.RecentExpenses, err = s.repo.RecentExpenses(gctx, userID, p.RecentFrom, recentExpenseLimit)
		return err
	})
	g.Go(func() (err error) {
		d.MonthExpenses, err = s.repo.SumExpenses(gctx, userID, p.StartOfMonth, datex.Date{})
		return err
	})
	g.Go(func() (err error) {
		d.UpcomingBills, err = s.repo.UnpaidBills(gctx, userID, p.Today, p.UpcomingUntil)
		return err
	})
	g.Go(func() (err error) {
		d.OverdueBills, err = s.repo.UnpaidBills(gctx, userID, datex.Date{}, p.OverdueUntil)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch dashboard data", err)
	}
	if d.User == nil {
		return nil, errors.ErrUserNotFound
	}
	return d, nil
}

func (s *Service) Insights(ctx context.Context, userID int64) (*Insights, error) {
	p := NewPeriod(s.Today())
	in := &Insights{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.TotalBudgeted, err = s.repo.SumBudgeted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.MonthSpent, err = s.repo.SumExpenses(gctx, userID, p.StartOfMonth, datex.Date{})
		return err
	})
	g.Go(func() (err error) {
		in.LastMonthSpent, err = s.repo.SumExpenses(gctx, userID, p.StartOfLastMonth, p.EndOfLastMonth)
		return err
	})
	g.Go(func() (err error) {
		in.CategorySpending, err = s.repo.CategorySpending(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.Timeline, err = s.repo.DailySpending(gctx, userID, p.RecentFrom)
		return err
	})
	g.Go(func() error {
		upcoming, err := s.repo.UnpaidBills(gctx, userID, p.Today, datex.Date{})
		in.UpcomingBillsCount = len(upcoming)
		return err
	})
	g.Go(func() (err error) {
		in.OverdueBills, err = s.repo.UnpaidBills(gctx, userID, datex.Date{}, p.OverdueUntil)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build insights", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch insights", err)
	}
	return in, nil
}

// Package insights composes read-only summaries over budgets, expenses and
// bills. It owns no state.
package insights

import (
	"github.com/frahmantamala/budgetwise/internal/bill"
	"github.com/frahmantamala/budgetwise/internal/budget"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	recentWindowDays   = 30
	recentExpenseLimit = 10
	upcomingWindowDays = 7
)

type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}

type DailySpend struct {
	Date   datex.Date
	Amount decimal.Decimal
}

// Period holds the calendar boundaries every summary is computed against.
type Period struct {
	Today            datex.Date
	RecentFrom       datex.Date
	StartOfMonth     datex.Date
	StartOfLastMonth datex.Date
	EndOfLastMonth   datex.Date
	UpcomingUntil    datex.Date
	OverdueUntil     datex.Date
}

func NewPeriod(today datex.Date) Period {
	start := today.StartOfMonth()
	return Period{
		Today:            today,
		RecentFrom:       today.AddDays(-recentWindowDays),
		StartOfMonth:     start,
		StartOfLastMonth: start.AddMonths(-1),
		EndOfLastMonth:   start.AddDays(-1),
		UpcomingUntil:    today.AddDays(upcomingWindowDays),
		OverdueUntil:     today.AddDays(-1),
	}
}

// Dashboard is the home screen snapshot.
type Dashboard struct {
	User           *UserSummary
	Budgets        []budget.WithSpent
	RecentExpenses []*expense.Expense
	MonthExpenses  decimal.Decimal
	OverdueBills   []*bill.Bill
	UpcomingBills  []*bill.Bill
}

type DashboardSummary struct {
	TotalBudgeted      decimal.Decimal
	TotalSpentBudgets  decimal.Decimal
	BudgetUtilization  decimal.Decimal
	MonthExpensesTotal decimal.Decimal
	OverdueBillsCount  int
	OverdueBillsAmount decimal.Decimal
	UpcomingBillsCount int
}

func (d *Dashboard) Summary() DashboardSummary {
	s := DashboardSummary{
		TotalBudgeted:      decimal.Zero,
		TotalSpentBudgets:  decimal.Zero,
		MonthExpensesTotal: d.MonthExpenses,
		OverdueBillsCount:  len(d.OverdueBills),
		OverdueBillsAmount: decimal.Zero,
		UpcomingBillsCount: len(d.UpcomingBills),
	}
	for _, b := range d.Budgets {
		s.TotalBudgeted = s.TotalBudgeted.Add(b.Budget.BudgetedAmount)
		s.TotalSpentBudgets = s.TotalSpentBudgets.Add(b.Spent)
	}
	for _, b := range d.OverdueBills {
		s.OverdueBillsAmount = s.OverdueBillsAmount.Add(b.Amount)
	}
	s.BudgetUtilization = money.Percent(s.TotalSpentBudgets, s.TotalBudgeted)
	return s
}

// Insights mixes the lifetime budget total with this month's spend in
// BudgetUtilization; callers rely on that pairing.
type Insights struct {
	TotalBudgeted      decimal.Decimal
	MonthSpent         decimal.Decimal
	CategorySpending   []CategorySpend
	Timeline           []DailySpend
	UpcomingBillsCount int
	OverdueBills       []*bill.Bill
	LastMonthSpent     decimal.Decimal
}

func (i *Insights) UtilizationPercent() decimal.Decimal {
	return money.Percent(i.MonthSpent, i.TotalBudgeted)
}

func (i *Insights) OverdueAmount() decimal.Decimal {
	total := decimal.Zero
	for _, b := range i.OverdueBills {
		total = total.Add(b.Amount)
	}
	return total
}

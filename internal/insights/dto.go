package insights

import (
	"github.com/frahmantamala/budgetwise/internal/bill"
	"github.com/frahmantamala/budgetwise/internal/budget"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

type DashboardSummaryResponse struct {
	TotalBudgeted      decimal.Decimal `json:"total_budgeted"`
	TotalSpentBudgets  decimal.Decimal `json:"total_spent_budgets"`
	BudgetUtilization  decimal.Decimal `json:"budget_utilization"`
	MonthExpensesTotal decimal.Decimal `json:"month_expenses_total"`
	OverdueBillsCount  int             `json:"overdue_bills_count"`
	OverdueBillsAmount decimal.Decimal `json:"overdue_bills_amount"`
	UpcomingBillsCount int             `json:"upcoming_bills_count"`
}

type DashboardResponse struct {
	User           *UserSummary              `json:"user"`
	Summary        DashboardSummaryResponse  `json:"summary"`
	Budgets        []budget.BudgetResponse   `json:"budgets"`
	RecentExpenses []expense.ExpenseResponse `json:"recent_expenses"`
	OverdueBills   []bill.BillResponse       `json:"overdue_bills"`
	UpcomingBills  []bill.BillResponse       `json:"upcoming_bills"`
}

func (d *Dashboard) ToResponse(today datex.Date) DashboardResponse {
	s := d.Summary()
	resp := DashboardResponse{
		User: d.User,
		Summary: DashboardSummaryResponse{
			TotalBudgeted:      money.Round(s.TotalBudgeted),
			TotalSpentBudgets:  money.Round(s.TotalSpentBudgets),
			BudgetUtilization:  money.Round(s.BudgetUtilization),
			MonthExpensesTotal: money.Round(s.MonthExpensesTotal),
			OverdueBillsCount:  s.OverdueBillsCount,
			OverdueBillsAmount: money.Round(s.OverdueBillsAmount),
			UpcomingBillsCount: s.UpcomingBillsCount,
		},
		Budgets:        make([]budget.BudgetResponse, 0, len(d.Budgets)),
		RecentExpenses: make([]expense.ExpenseResponse, 0, len(d.RecentExpenses)),
		OverdueBills:   make([]bill.BillResponse, 0, len(d.OverdueBills)),
		UpcomingBills:  make([]bill.BillResponse, 0, len(d.UpcomingBills)),
	}
	for _, b := range d.Budgets {
		resp.Budgets = append(resp.Budgets, b.ToResponse())
	}
	for _, e := range d.RecentExpenses {
		resp.RecentExpenses = append(resp.RecentExpenses, e.ToResponse())
	}
	for _, b := range d.OverdueBills {
		resp.OverdueBills = append(resp.OverdueBills, b.ToResponse(today))
	}
	for _, b := range d.UpcomingBills {
		resp.UpcomingBills = append(resp.UpcomingBills, b.ToResponse(today))
	}
	return resp
}

type BudgetUtilizationResponse struct {
	TotalBudgeted      decimal.Decimal `json:"total_budgeted"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
}

type CategorySpendResponse struct {
	Category   string          `json:"category"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type DailySpendResponse struct {
	Date   datex.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type BillsSummaryResponse struct {
	UpcomingBillsCount int             `json:"upcoming_bills_count"`
	OverdueBillsCount  int             `json:"overdue_bills_count"`
	OverdueBillsAmount decimal.Decimal `json:"overdue_bills_amount"`
}

type MonthlyComparisonResponse struct {
	ThisMonthSpending decimal.Decimal `json:"this_month_spending"`
	LastMonthSpending decimal.Decimal `json:"last_month_spending"`
}

type InsightsResponse struct {
	BudgetUtilization BudgetUtilizationResponse `json:"budget_utilization"`
	CategorySpending  []CategorySpendResponse   `json:"category_spending"`
	SpendingTimeline  []DailySpendResponse      `json:"spending_timeline"`
	BillsSummary      BillsSummaryResponse      `json:"bills_summary"`
	MonthlyComparison MonthlyComparisonResponse `json:"monthly_comparison"`
}

func (i *Insights) ToResponse() InsightsResponse {
	resp := InsightsResponse{
		BudgetUtilization: BudgetUtilizationResponse{
			TotalBudgeted:      money.Round(i.TotalBudgeted),
			TotalSpent:         money.Round(i.MonthSpent),
			UtilizationPercent: money.Round(i.UtilizationPercent()),
		},
		CategorySpending: make([]CategorySpendResponse, 0, len(i.CategorySpending)),
		SpendingTimeline: make([]DailySpendResponse, 0, len(i.Timeline)),
		BillsSummary: BillsSummaryResponse{
			UpcomingBillsCount: i.UpcomingBillsCount,
			OverdueBillsCount:  len(i.OverdueBills),
			OverdueBillsAmount: money.Round(i.OverdueAmount()),
		},
		MonthlyComparison: MonthlyComparisonResponse{
			ThisMonthSpending: money.Round(i.MonthSpent),
			LastMonthSpending: money.Round(i.LastMonthSpent),
		},
	}
	for _, c := range i.CategorySpending {
		resp.CategorySpending = append(resp.CategorySpending, CategorySpendResponse{
			Category:   c.Category,
			TotalSpent: money.Round(c.Total),
		})
	}
	for _, d := range i.Timeline {
		resp.SpendingTimeline = append(resp.SpendingTimeline, DailySpendResponse{
			Date:   d.Date,
			Amount: money.Round(d.Amount),
		})
	}
	return resp
}

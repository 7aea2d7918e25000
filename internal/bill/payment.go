package bill

import (
	"time"

	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of a bill being paid. BillID becomes nil
// once the originating bill is deleted.
type Payment struct {
	ID              int64
	UserID          int64
	BillID          *int64
	BillName        string
	Amount          decimal.Decimal
	Category        string
	OriginalDueDate datex.Date
	PaidDate        datex.Date
	CreatedAt       time.Time
}

func (p *Payment) WasPaidLate() bool {
	return p.PaidDate.After(p.OriginalDueDate)
}

func (p *Payment) DaysLate() int {
	if !p.WasPaidLate() {
		return 0
	}
	return p.OriginalDueDate.DaysUntil(p.PaidDate)
}

// PaymentSummary aggregates a list of payments.
type PaymentSummary struct {
	Count         int
	TotalAmount   decimal.Decimal
	LatePayments  int
	AverageAmount decimal.Decimal
}

func Summarize(payments []*Payment) PaymentSummary {
	s := PaymentSummary{
		Count:         len(payments),
		AverageAmount: decimal.Zero,
	}
	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
		if p.WasPaidLate() {
			s.LatePayments++
		}
	}
	s.TotalAmount = money.Sum(amounts...)
	if s.Count > 0 {
		s.AverageAmount = s.TotalAmount.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

func (s PaymentSummary) ToResponse() PaymentSummaryResponse {
	return PaymentSummaryResponse{
		Count:         s.Count,
		TotalAmount:   money.Round(s.TotalAmount),
		LatePayments:  s.LatePayments,
		AverageAmount: money.Round(s.AverageAmount),
	}
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		BillID:          p.BillID,
		BillName:        p.BillName,
		Amount:          money.Round(p.Amount),
		Category:        p.Category,
		OriginalDueDate: p.OriginalDueDate,
		PaidDate:        p.PaidDate,
		WasPaidLate:     p.WasPaidLate(),
		DaysLate:        p.DaysLate(),
		CreatedAt:       p.CreatedAt,
	}
}

func PaymentToDataModel(p *Payment) *billDatamodel.BillPayment {
	return &billDatamodel.BillPayment{
		ID:              p.ID,
		UserID:          p.UserID,
		BillID:          p.BillID,
		BillName:        p.BillName,
		Amount:          p.Amount,
		Category:        p.Category,
		OriginalDueDate: p.OriginalDueDate,
		PaidDate:        p.PaidDate,
		CreatedAt:       p.CreatedAt,
	}
}

func PaymentFromDataModel(p *billDatamodel.BillPayment) *Payment {
	if p == nil {
		return nil
	}
	return &Payment{
		ID:              p.ID,
		UserID:          p.UserID,
		BillID:          p.BillID,
		BillName:        p.BillName,
		Amount:          p.Amount,
		Category:        p.Category,
		OriginalDueDate: p.OriginalDueDate,
		PaidDate:        p.PaidDate,
		CreatedAt:       p.CreatedAt,
	}
}

package bill

import (
	"time"

	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	RecurringWeekly  = "weekly"
	RecurringMonthly = "monthly"
	RecurringYearly  = "yearly"
	RecurringOneTime = "one-time"
)

var RecurringTypes = []string{RecurringWeekly, RecurringMonthly, RecurringYearly, RecurringOneTime}

const (
	StatusUpcoming = "upcoming"
	StatusOverdue  = "overdue"
	StatusPaid     = "paid"
)

var Statuses = []string{StatusUpcoming, StatusOverdue, StatusPaid}

type Bill struct {
	ID            int64
	UserID        int64
	Name          string
	Amount        decimal.Decimal
	Category      string
	DueDate       datex.Date
	RecurringType string
	PaidDate      *datex.Date
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Bill) IsPaid() bool {
	return b.PaidDate != nil && !b.PaidDate.IsZero()
}

// Status is never stored; it depends on the day it is asked.
func (b *Bill) Status(today datex.Date) string {
	switch {
	case b.IsPaid():
		return StatusPaid
	case b.DueDate.Before(today):
		return StatusOverdue
	default:
		return StatusUpcoming
	}
}

// DaysUntilDue is negative once the due date has passed.
func (b *Bill) DaysUntilDue(today datex.Date) int {
	return today.DaysUntil(b.DueDate)
}

// NextDueDate advances due by one recurrence interval. Monthly and yearly
// steps clamp to the last day of the target month. ok is false for one-time
// bills and unknown recurrences.
func NextDueDate(due datex.Date, recurringType string) (next datex.Date, ok bool) {
	switch recurringType {
	case RecurringWeekly:
		return due.AddDays(7), true
	case RecurringMonthly:
		return due.AddMonths(1), true
	case RecurringYearly:
		return due.AddYears(1), true
	default:
		return datex.Date{}, false
	}
}

// NewPayment snapshots b as paid on paidDate. It must be taken before any
// later edit to b.
func NewPayment(b *Bill, paidDate datex.Date) *Payment {
	billID := b.ID
	return &Payment{
		UserID:          b.UserID,
		BillID:          &billID,
		BillName:        b.Name,
		Amount:          b.Amount,
		Category:        b.Category,
		OriginalDueDate: b.DueDate,
		PaidDate:        paidDate,
	}
}

// Successor returns the next occurrence of a recurring bill, or nil.
func Successor(b *Bill) *Bill {
	next, ok := NextDueDate(b.DueDate, b.RecurringType)
	if !ok {
		return nil
	}
	return &Bill{
		UserID:        b.UserID,
		Name:          b.Name,
		Amount:        b.Amount,
		Category:      b.Category,
		DueDate:       next,
		RecurringType: b.RecurringType,
	}
}

func (b *Bill) ToResponse(today datex.Date) BillResponse {
	return BillResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		Name:          b.Name,
		Amount:        money.Round(b.Amount),
		Category:      b.Category,
		DueDate:       b.DueDate,
		RecurringType: b.RecurringType,
		PaidDate:      b.PaidDate,
		Status:        b.Status(today),
		DaysUntilDue:  b.DaysUntilDue(today),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToDataModel(b *Bill) *billDatamodel.Bill {
	return &billDatamodel.Bill{
		ID:            b.ID,
		UserID:        b.UserID,
		Name:          b.Name,
		Amount:        b.Amount,
		Category:      b.Category,
		DueDate:       b.DueDate,
		RecurringType: b.RecurringType,
		PaidDate:      b.PaidDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromDataModel(b *billDatamodel.Bill) *Bill {
	if b == nil {
		return nil
	}
	return &Bill{
		ID:            b.ID,
		UserID:        b.UserID,
		Name:          b.Name,
		Amount:        b.Amount,
		Category:      b.Category,
		DueDate:       b.DueDate,
		RecurringType: b.RecurringType,
		PaidDate:      b.PaidDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

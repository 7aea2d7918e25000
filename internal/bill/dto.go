package bill

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
)

type CreateBillDTO struct {
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	DueDate       string          `json:"due_date"`
	RecurringType string          `json:"recurring_type"`
}

// Validate normalises the payload, defaulting recurring_type to monthly, and
// returns the parsed due date.
func (dto *CreateBillDTO) Validate() (datex.Date, *errors.AppError) {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Category = strings.TrimSpace(dto.Category)
	dto.RecurringType = strings.TrimSpace(dto.RecurringType)
	if dto.RecurringType == "" {
		dto.RecurringType = RecurringMonthly
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required().
		MaxLength(100)
	v.Field("amount", dto.Amount).
		Amount(errors.ErrCodeInvalidAmount)
	v.Field("category", dto.Category).
		Required().
		MaxLength(50)
	v.Field("due_date", dto.DueDate).
		Required()
	v.Field("recurring_type", dto.RecurringType).
		OneOf(errors.ErrCodeInvalidRecurrence, RecurringTypes...)
	if appErr := v.Validate(); appErr != nil {
		return datex.Date{}, appErr
	}

	due, err := datex.Parse(dto.DueDate)
	if err != nil {
		return datex.Date{}, errors.ErrInvalidDateFormat
	}
	return due, nil
}

// UpdateBillDTO changes only the fields that are present.
type UpdateBillDTO struct {
	Name          *string          `json:"name,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Category      *string          `json:"category,omitempty"`
	DueDate       *string          `json:"due_date,omitempty"`
	RecurringType *string          `json:"recurring_type,omitempty"`
}

func (dto *UpdateBillDTO) Empty() bool {
	return dto.Name == nil && dto.Amount == nil && dto.Category == nil &&
		dto.DueDate == nil && dto.RecurringType == nil
}

// Apply validates the present fields and writes them onto b.
func (dto *UpdateBillDTO) Apply(b *Bill) *errors.AppError {
	if dto.Empty() {
		return errors.NewValidationError("No data provided", errors.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		v.Field("name", name).Required().MaxLength(100)
		b.Name = name
	}
	if dto.Amount != nil {
		v.Field("amount", *dto.Amount).Amount(errors.ErrCodeInvalidAmount)
		b.Amount = *dto.Amount
	}
	if dto.Category != nil {
		category := strings.TrimSpace(*dto.Category)
		v.Field("category", category).Required().MaxLength(50)
		b.Category = category
	}
	if dto.RecurringType != nil {
		v.Field("recurring_type", *dto.RecurringType).OneOf(errors.ErrCodeInvalidRecurrence, RecurringTypes...)
		b.RecurringType = *dto.RecurringType
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if dto.DueDate != nil {
		due, err := datex.Parse(*dto.DueDate)
		if err != nil {
			return errors.ErrInvalidDateFormat
		}
		b.DueDate = due
	}
	return nil
}

type PayBillDTO struct {
	PaidDate *string `json:"paid_date,omitempty"`
}

// ResolvePaidDate returns the explicit paid date, or today when none is given.
func (dto *PayBillDTO) ResolvePaidDate(today datex.Date) (datex.Date, *errors.AppError) {
	if dto.PaidDate == nil {
		return today, nil
	}
	d, err := datex.Parse(*dto.PaidDate)
	if err != nil {
		return datex.Date{}, errors.ErrInvalidDateFormat
	}
	return d, nil
}

type BillResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	DueDate       datex.Date      `json:"due_date"`
	RecurringType string          `json:"recurring_type"`
	PaidDate      *datex.Date     `json:"paid_date"`
	Status        string          `json:"status"`
	DaysUntilDue  int             `json:"days_until_due"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type BillsResponse struct {
	Bills []BillResponse `json:"bills"`
	Count int            `json:"count"`
}

type PaymentResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	BillID          *int64          `json:"bill_id"`
	BillName        string          `json:"bill_name"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	OriginalDueDate datex.Date      `json:"original_due_date"`
	PaidDate        datex.Date      `json:"paid_date"`
	WasPaidLate     bool            `json:"was_paid_late"`
	DaysLate        int             `json:"days_late"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PaymentSummaryResponse struct {
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	LatePayments  int             `json:"late_payments"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

type PaymentsResponse struct {
	Payments []PaymentResponse      `json:"payments"`
	Summary  PaymentSummaryResponse `json:"summary"`
}

type PayResponse struct {
	Message       string          `json:"message"`
	PaidBill      BillResponse    `json:"paid_bill"`
	PaymentRecord PaymentResponse `json:"payment_record"`
	NextBill      *BillResponse   `json:"next_bill,omitempty"`
}

package bill

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/pkg/datex"
)

var (
	ErrNotFound    = stderrors.New("bill not found")
	ErrAlreadyPaid = stderrors.New("bill already paid")
)

// PayPlan receives the bill as it stands after being marked paid and returns
// the records to insert alongside it. next is nil for one-time bills.
type PayPlan func(paid *billDatamodel.Bill) (payment *billDatamodel.BillPayment, next *billDatamodel.Bill)

// PaidRecords is everything a successful Pay wrote.
type PaidRecords struct {
	Bill    *billDatamodel.Bill
	Payment *billDatamodel.BillPayment
	Next    *billDatamodel.Bill
}

type Repository interface {
	Create(ctx context.Context, bill *billDatamodel.Bill) error
	// GetByID returns ErrNotFound when the bill is missing or belongs to someone else.
	GetByID(ctx context.Context, userID, id int64) (*billDatamodel.Bill, error)
	List(ctx context.Context, userID int64, category string) ([]*billDatamodel.Bill, error)
	Update(ctx context.Context, bill *billDatamodel.Bill) error
	// Delete detaches the bill's payment history before removing it.
	Delete(ctx context.Context, userID, id int64) error
	// Pay marks the bill paid only if it is currently unpaid and inserts the
	// planned records in the same transaction. It returns ErrAlreadyPaid
	// without writing anything when another caller got there first.
	Pay(ctx context.Context, userID, id int64, paidDate datex.Date, plan PayPlan) (*PaidRecords, error)
	ListPayments(ctx context.Context, userID int64) ([]*billDatamodel.BillPayment, error)
}

// PayResult is the outcome of paying a bill.
type PayResult struct {
	PaidBill *Bill
	Payment  *Payment
	NextBill *Bill
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the source of "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Today() datex.Date {
	return datex.Today(s.now)
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateBillDTO) (*Bill, error) {
	due, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	record := &billDatamodel.Bill{
		UserID:        userID,
		Name:          dto.Name,
		Amount:        dto.Amount,
		Category:      dto.Category,
		DueDate:       due,
		RecurringType: dto.RecurringType,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create bill", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to create bill", err)
	}

	s.logger.Info("bill created", "bill_id", record.ID, "user_id", userID, "due_date", due.String())
	return FromDataModel(record), nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Bill, error) {
	record, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.mapRepoError(err, "Failed to fetch bill", "bill_id", id)
	}
	return FromDataModel(record), nil
}

// List returns the user's bills ordered by due date. status filters on the
// derived status and must be one of Statuses when set.
func (s *Service) List(ctx context.Context, userID int64, status, category string) ([]*Bill, error) {
	if status != "" && !isStatus(status) {
		return nil, errors.NewValidationError("status must be one of: upcoming, overdue, paid", errors.ErrCodeValidationFailed)
	}

	records, err := s.repo.List(ctx, userID, category)
	if err != nil {
		s.logger.Error("failed to list bills", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch bills", err)
	}

	today := s.Today()
	bills := make([]*Bill, 0, len(records))
	for _, r := range records {
		b := FromDataModel(r)
		if status != "" && b.Status(today) != status {
			continue
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto UpdateBillDTO) (*Bill, error) {
	record, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.mapRepoError(err, "Failed to update bill", "bill_id", id)
	}

	b := FromDataModel(record)
	if appErr := dto.Apply(b); appErr != nil {
		return nil, appErr
	}

	updated := ToDataModel(b)
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, s.mapRepoError(err, "Failed to update bill", "bill_id", id)
	}

	s.logger.Info("bill updated", "bill_id", id, "user_id", userID)
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return s.mapRepoError(err, "Failed to delete bill", "bill_id", id)
	}
	s.logger.Info("bill deleted", "bill_id", id, "user_id", userID)
	return nil
}

// Pay moves an unpaid bill to paid on paidDate, recording a payment snapshot
// and, for recurring bills, the next occurrence due one interval after the
// original due date.
func (s *Service) Pay(ctx context.Context, userID, id int64, paidDate datex.Date) (*PayResult, error) {
	if paidDate.IsZero() {
		paidDate = s.Today()
	}

	records, err := s.repo.Pay(ctx, userID, id, paidDate, func(paid *billDatamodel.Bill) (*billDatamodel.BillPayment, *billDatamodel.Bill) {
		b := FromDataModel(paid)
		payment := PaymentToDataModel(NewPayment(b, paidDate))

		var next *billDatamodel.Bill
		if successor := Successor(b); successor != nil {
			next = ToDataModel(successor)
		}
		return payment, next
	})
	if err != nil {
		return nil, s.mapRepoError(err, "Payment failed", "bill_id", id)
	}

	result := &PayResult{
		PaidBill: FromDataModel(records.Bill),
		Payment:  PaymentFromDataModel(records.Payment),
		NextBill: FromDataModel(records.Next),
	}

	var nextID *int64
	if result.NextBill != nil {
		nextID = &result.NextBill.ID
	}

	s.logger.Info("bill paid",
		"bill_id", id,
		"user_id", userID,
		"payment_id", result.Payment.ID,
		"paid_date", paidDate.String(),
		"days_late", result.Payment.DaysLate(),
		"next_bill_id", nextID)

	event := events.NewBillPaidEvent(userID, id, result.Payment.ID, result.Payment.Amount.StringFixed(2), paidDate.String(), nextID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}

	return result, nil
}

func (s *Service) ListPayments(ctx context.Context, userID int64) ([]*Payment, PaymentSummary, error) {
	records, err := s.repo.ListPayments(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bill payments", "error", err, "user_id", userID)
		return nil, PaymentSummary{}, errors.NewInternalError("Failed to fetch bill payments", err)
	}

	payments := make([]*Payment, 0, len(records))
	for _, r := range records {
		payments = append(payments, PaymentFromDataModel(r))
	}
	return payments, Summarize(payments), nil
}

func (s *Service) mapRepoError(err error, message string, args ...any) error {
	switch {
	case stderrors.Is(err, ErrNotFound):
		return errors.ErrBillNotFound
	case stderrors.Is(err, ErrAlreadyPaid):
		return errors.ErrBillAlreadyPaid
	}
	s.logger.Error(message, append(args, "error", err)...)
	return errors.NewInternalError(message, err)
}

func isStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

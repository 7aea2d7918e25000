package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBillPaid       = "bill.paid"
	EventTypeExpenseCreated = "expense.created"
)

type BillPaidEvent struct {
	BaseEvent
	BillID     int64  `json:"bill_id"`
	PaymentID  int64  `json:"payment_id"`
	UserID     int64  `json:"user_id"`
	NextBillID *int64 `json:"next_bill_id,omitempty"`
}

func NewBillPaidEvent(userID, billID, paymentID int64, amount string, paidDate string, nextBillID *int64) *BillPaidEvent {
	data := map[string]interface{}{
		"bill_id":    billID,
		"payment_id": paymentID,
		"user_id":    userID,
		"amount":     amount,
		"paid_date":  paidDate,
	}
	if nextBillID != nil {
		data["next_bill_id"] = *nextBillID
	}
	return &BillPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBillPaid,
			Timestamp: time.Now(),
			Data:      data,
		},
		BillID:     billID,
		PaymentID:  paymentID,
		UserID:     userID,
		NextBillID: nextBillID,
	}
}

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID  int64 `json:"expense_id"`
	UserID     int64 `json:"user_id"`
	CategoryID int64 `json:"category_id"`
}

func NewExpenseCreatedEvent(userID, expenseID, categoryID int64, amount string, expenseDate string) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id":   expenseID,
				"user_id":      userID,
				"category_id":  categoryID,
				"amount":       amount,
				"expense_date": expenseDate,
			},
		},
		ExpenseID:  expenseID,
		UserID:     userID,
		CategoryID: categoryID,
	}
}

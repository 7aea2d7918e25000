package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/budgetwise/internal/bill"
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"gorm.io/gorm"
)

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) bill.Repository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, b *billDatamodel.Bill) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BillRepository) GetByID(ctx context.Context, userID, id int64) (*billDatamodel.Bill, error) {
	return findBill(r.db.WithContext(ctx), userID, id)
}

func findBill(db *gorm.DB, userID, id int64) (*billDatamodel.Bill, error) {
	var b billDatamodel.Bill
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bill.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BillRepository) List(ctx context.Context, userID int64, category string) ([]*billDatamodel.Bill, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var bills []*billDatamodel.Bill
	err := q.Order("due_date ASC").Order("id ASC").Find(&bills).Error
	return bills, err
}

func (r *BillRepository) Update(ctx context.Context, b *billDatamodel.Bill) error {
	res := r.db.WithContext(ctx).
		Model(&billDatamodel.Bill{}).
		Where("id = ? AND user_id = ?", b.ID, b.UserID).
		Updates(map[string]interface{}{
			"name":           b.Name,
			"amount":         b.Amount,
			"category":       b.Category,
			"due_date":       b.DueDate,
			"recurring_type": b.RecurringType,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return bill.ErrNotFound
	}
	return nil
}

func (r *BillRepository) Delete(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findBill(tx, userID, id); err != nil {
			return err
		}

		err := tx.Model(&billDatamodel.BillPayment{}).
			Where("bill_id = ?", id).
			Update("bill_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&billDatamodel.Bill{}).Error
	})
}

// Pay flips paid_date with a conditional update so that of two concurrent
// payers exactly one sees a row affected; the loser's transaction writes
// nothing.
func (r *BillRepository) Pay(ctx context.Context, userID, id int64, paidDate datex.Date, plan bill.PayPlan) (*bill.PaidRecords, error) {
	var records bill.PaidRecords

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&billDatamodel.Bill{}).
			Where("id = ? AND user_id = ? AND paid_date IS NULL", id, userID).
			Update("paid_date", paidDate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			if _, err := findBill(tx, userID, id); err != nil {
				return err
			}
			return bill.ErrAlreadyPaid
		}

		paid, err := findBill(tx, userID, id)
		if err != nil {
			return err
		}

		payment, next := plan(paid)
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if next != nil {
			if err := tx.Create(next).Error; err != nil {
				return err
			}
		}

		records = bill.PaidRecords{Bill: paid, Payment: payment, Next: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &records, nil
}

func (r *BillRepository) ListPayments(ctx context.Context, userID int64) ([]*billDatamodel.BillPayment, error) {
	var payments []*billDatamodel.BillPayment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("paid_date DESC").
		Order("id DESC").
		Find(&payments).Error
	return payments, err
}

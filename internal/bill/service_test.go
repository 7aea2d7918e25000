package bill_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/bill"
	billPostgres "github.com/frahmantamala/budgetwise/internal/bill/postgres"
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/pkg/datex"
)

type capturePublisher struct {
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(ctx context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return c.err
}

var _ = Describe("Bill Service", func() {
	const userID int64 = 1

	var (
		db        *gorm.DB
		service   *bill.Service
		publisher *capturePublisher
		ctx       context.Context
	)

	fixedNow := func() time.Time {
		return time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)
	}

	createBill := func(name, amount, due, recurring string) *bill.Bill {
		b, err := service.Create(ctx, userID, bill.CreateBillDTO{
			Name:          name,
			Amount:        decimal.RequireFromString(amount),
			Category:      "Utilities",
			DueDate:       due,
			RecurringType: recurring,
		})
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	countPayments := func() int64 {
		var n int64
		Expect(db.Model(&billDatamodel.BillPayment{}).Count(&n).Error).To(Succeed())
		return n
	}

	countBills := func() int64 {
		var n int64
		Expect(db.Model(&billDatamodel.Bill{}).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		db = testdb.MustOpen()
		publisher = &capturePublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = bill.NewService(billPostgres.NewBillRepository(db), publisher, logger).WithClock(fixedNow)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	Describe("Create", func() {
		It("defaults the recurrence to monthly", func() {
			b := createBill("Water", "30", "2024-03-20", "")
			Expect(b.RecurringType).To(Equal(bill.RecurringMonthly))
			Expect(b.Status(service.Today())).To(Equal(bill.StatusUpcoming))
		})

		It("rejects an unknown recurrence", func() {
			_, err := service.Create(ctx, userID, bill.CreateBillDTO{
				Name: "Water", Amount: decimal.NewFromInt(30), Category: "Utilities",
				DueDate: "2024-03-20", RecurringType: "daily",
			})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("rejects a malformed due date", func() {
			_, err := service.Create(ctx, userID, bill.CreateBillDTO{
				Name: "Water", Amount: decimal.NewFromInt(30), Category: "Utilities", DueDate: "03/20/2024",
			})
			Expect(err).To(MatchError(apperrors.ErrInvalidDateFormat))
			Expect(countBills()).To(BeZero())
		})
	})

	Describe("Pay", func() {
		It("pays a weekly bill late and schedules the next one from the original due date", func() {
			b := createBill("Cleaner", "100", "2024-03-01", bill.RecurringWeekly)

			result, err := service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 2))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.PaidBill.Status(service.Today())).To(Equal(bill.StatusPaid))
			Expect(*result.PaidBill.PaidDate).To(Equal(datex.New(2024, 3, 2)))

			Expect(result.Payment.ID).To(BeNumerically(">", 0))
			Expect(result.Payment.Amount.Equal(decimal.NewFromInt(100))).To(BeTrue())
			Expect(result.Payment.OriginalDueDate).To(Equal(datex.New(2024, 3, 1)))
			Expect(result.Payment.PaidDate).To(Equal(datex.New(2024, 3, 2)))
			Expect(result.Payment.WasPaidLate()).To(BeTrue())
			Expect(result.Payment.DaysLate()).To(Equal(1))

			Expect(result.NextBill).NotTo(BeNil())
			Expect(result.NextBill.DueDate).To(Equal(datex.New(2024, 3, 8)))
			Expect(result.NextBill.RecurringType).To(Equal(bill.RecurringWeekly))
			Expect(result.NextBill.IsPaid()).To(BeFalse())

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeBillPaid))
		})

		It("keeps the payment when the event cannot be published", func() {
			publisher.err = errors.New("broker unavailable")
			b := createBill("Internet", "60", "2024-03-01", bill.RecurringMonthly)

			result, err := service.Pay(ctx, userID, b.ID, datex.Date{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Payment.ID).To(BeNumerically(">", 0))
			Expect(publisher.events).To(HaveLen(1))
			Expect(countPayments()).To(Equal(int64(1)))
		})

		It("clamps a monthly successor due on the 31st into February", func() {
			b := createBill("Rent", "1200", "2024-01-31", bill.RecurringMonthly)

			result, err := service.Pay(ctx, userID, b.ID, datex.Date{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.NextBill.DueDate).To(Equal(datex.New(2024, 2, 29)))
			Expect(result.Payment.PaidDate).To(Equal(datex.New(2024, 3, 5)))
		})

		It("creates no successor for a one-time bill", func() {
			b := createBill("Repair", "80", "2024-03-10", bill.RecurringOneTime)

			result, err := service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.NextBill).To(BeNil())
			Expect(result.Payment.WasPaidLate()).To(BeFalse())
			Expect(countBills()).To(Equal(int64(1)))
		})

		It("fails a second payment without writing another payment record", func() {
			b := createBill("Phone", "45", "2024-03-01", bill.RecurringMonthly)

			_, err := service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(countPayments()).To(Equal(int64(1)))
			Expect(countBills()).To(Equal(int64(2)))

			_, err = service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 3))
			Expect(err).To(MatchError(apperrors.ErrBillAlreadyPaid))
			Expect(countPayments()).To(Equal(int64(1)))
			Expect(countBills()).To(Equal(int64(2)))

			stored, err := service.Get(ctx, userID, b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.PaidDate).To(Equal(datex.New(2024, 3, 1)))
		})

		It("reports a bill owned by someone else as not found", func() {
			b := createBill("Phone", "45", "2024-03-01", bill.RecurringMonthly)

			_, err := service.Pay(ctx, 2, b.ID, datex.New(2024, 3, 1))
			Expect(err).To(MatchError(apperrors.ErrBillNotFound))

			_, err = service.Pay(ctx, userID, 999, datex.New(2024, 3, 1))
			Expect(err).To(MatchError(apperrors.ErrBillNotFound))
			Expect(countPayments()).To(BeZero())
		})

		It("rolls the bill back when the payment record cannot be written", func() {
			b := createBill("Gas", "70", "2024-03-01", bill.RecurringMonthly)

			err := db.Callback().Create().Before("gorm:create").Register("test:fail_bill_payments", func(tx *gorm.DB) {
				if tx.Statement.Table == "bill_payments" {
					_ = tx.AddError(errors.New("disk full"))
				}
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 2))
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeInternal))

			stored, err := service.Get(ctx, userID, b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsPaid()).To(BeFalse())
			Expect(countPayments()).To(BeZero())
			Expect(countBills()).To(Equal(int64(1)))
			Expect(publisher.events).To(BeEmpty())
		})

		It("keeps the payment snapshot when the bill is later edited", func() {
			b := createBill("Insurance", "300", "2024-02-01", bill.RecurringYearly)
			_, err := service.Pay(ctx, userID, b.ID, datex.New(2024, 2, 1))
			Expect(err).NotTo(HaveOccurred())

			name := "Car insurance"
			amount := decimal.NewFromInt(350)
			_, err = service.Update(ctx, userID, b.ID, bill.UpdateBillDTO{Name: &name, Amount: &amount})
			Expect(err).NotTo(HaveOccurred())

			payments, _, err := service.ListPayments(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(1))
			Expect(payments[0].BillName).To(Equal("Insurance"))
			Expect(payments[0].Amount.Equal(decimal.NewFromInt(300))).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("keeps payment history with the bill id cleared", func() {
			b := createBill("Gym", "25", "2024-03-01", bill.RecurringOneTime)
			_, err := service.Pay(ctx, userID, b.ID, datex.New(2024, 3, 1))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, userID, b.ID)).To(Succeed())

			_, err = service.Get(ctx, userID, b.ID)
			Expect(err).To(MatchError(apperrors.ErrBillNotFound))

			payments, summary, err := service.ListPayments(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(1))
			Expect(payments[0].BillID).To(BeNil())
			Expect(summary.Count).To(Equal(1))
		})

		It("returns not found for a missing bill", func() {
			Expect(service.Delete(ctx, userID, 42)).To(MatchError(apperrors.ErrBillNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			createBill("Later", "10", "2024-03-20", bill.RecurringOneTime)
			createBill("Late", "10", "2024-02-20", bill.RecurringOneTime)
			paid := createBill("Done", "10", "2024-03-01", bill.RecurringOneTime)
			_, err := service.Pay(ctx, userID, paid.ID, datex.New(2024, 3, 1))
			Expect(err).NotTo(HaveOccurred())
		})

		It("orders by due date", func() {
			bills, err := service.List(ctx, userID, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(HaveLen(3))
			Expect(bills[0].Name).To(Equal("Late"))
			Expect(bills[2].Name).To(Equal("Later"))
		})

		DescribeTable("filters on derived status",
			func(status, name string) {
				bills, err := service.List(ctx, userID, status, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(HaveLen(1))
				Expect(bills[0].Name).To(Equal(name))
			},
			Entry("overdue", bill.StatusOverdue, "Late"),
			Entry("upcoming", bill.StatusUpcoming, "Later"),
			Entry("paid", bill.StatusPaid, "Done"),
		)

		It("rejects an unknown status", func() {
			_, err := service.List(ctx, userID, "cancelled", "")
			Expect(err).To(HaveOccurred())
		})

		It("filters on category", func() {
			bills, err := service.List(ctx, userID, "", "Housing")
			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(BeEmpty())
		})
	})
})

package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/internal/expense"
	expensePostgres "github.com/frahmantamala/budgetwise/internal/expense/postgres"
	"github.com/frahmantamala/budgetwise/pkg/datex"
)

func TestExpensePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Postgres Suite")
}

var _ = Describe("Expense Repository", func() {
	var (
		db   *gorm.DB
		repo expense.Repository
		ctx  context.Context
	)

	seed := func(userID, categoryID int64, amount string, date datex.Date) {
		Expect(repo.Create(ctx, &expenseDatamodel.Expense{
			UserID:      userID,
			CategoryID:  categoryID,
			Description: "expense on " + date.String(),
			Amount:      decimal.RequireFromString(amount),
			ExpenseDate: date,
		})).To(Succeed())
	}

	BeforeEach(func() {
		db = testdb.MustOpen()
		repo = expensePostgres.NewExpenseRepository(db)
		ctx = context.Background()

		for day := 1; day <= 8; day++ {
			seed(1, 1, "10.00", datex.New(2024, 1, day*3))
		}
		seed(1, 2, "99.99", datex.New(2024, 1, 15))
		seed(1, 1, "5.00", datex.New(2023, 12, 31))
		seed(1, 1, "5.00", datex.New(2024, 2, 1))
		seed(2, 1, "1000.00", datex.New(2024, 1, 15))
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	It("round-trips amount and date", func() {
		rows, err := repo.Query(ctx, 1, expense.Filter{CategoryID: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Amount.Equal(decimal.RequireFromString("99.99"))).To(BeTrue())
		Expect(rows[0].ExpenseDate).To(Equal(datex.New(2024, 1, 15)))
	})

	It("applies an inclusive range with a limit, newest first", func() {
		filter := expense.Filter{
			StartDate: datex.New(2024, 1, 1),
			EndDate:   datex.New(2024, 1, 31),
			Limit:     5,
		}
		rows, err := repo.Query(ctx, 1, filter)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(5))

		for i, r := range rows {
			Expect(r.UserID).To(Equal(int64(1)))
			Expect(r.ExpenseDate.Before(filter.StartDate)).To(BeFalse())
			Expect(r.ExpenseDate.After(filter.EndDate)).To(BeFalse())
			if i > 0 {
				Expect(r.ExpenseDate.After(rows[i-1].ExpenseDate)).To(BeFalse())
			}
		}
		Expect(rows[0].ExpenseDate).To(Equal(datex.New(2024, 1, 24)))
	})

	It("includes both range endpoints", func() {
		rows, err := repo.Query(ctx, 1, expense.Filter{StartDate: datex.New(2023, 12, 31), EndDate: datex.New(2024, 2, 1)})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(11))
	})

	It("never returns another user's expenses", func() {
		rows, err := repo.Query(ctx, 2, expense.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].UserID).To(Equal(int64(2)))
	})
})

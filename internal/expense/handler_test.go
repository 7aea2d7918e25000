package expense_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/budgetwise/internal"
	categoryDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/category"
	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/internal/expense"
	expensePostgres "github.com/frahmantamala/budgetwise/internal/expense/postgres"
	"github.com/frahmantamala/budgetwise/internal/transport"
)

var _ = Describe("Expense Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *expense.Handler
	)

	withUser := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithUserID(req.Context(), 1))
	}

	post := func(body string) *httptest.ResponseRecorder {
		req := withUser(httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body)))
		w := httptest.NewRecorder()
		handler.CreateExpense(w, req)
		return w
	}

	BeforeEach(func() {
		db = testdb.MustOpen()
		Expect(db.Create(&categoryDatamodel.Category{Name: "Food"}).Error).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := expense.NewService(expensePostgres.NewExpenseRepository(db), categoryExists{db}, events.Nop{}, slogger)
		handler = expense.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	It("creates an expense and returns it with a YYYY-MM-DD date", func() {
		w := post(`{"category_id":1,"description":"Lunch","amount":12.5,"expense_date":"2024-01-10"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["expense_date"]).To(Equal("2024-01-10"))
		Expect(body["amount"]).To(BeNumerically("==", 12.5))
	})

	It("returns 400 for a malformed date", func() {
		w := post(`{"category_id":1,"description":"Lunch","amount":12.5,"expense_date":"2024-13-40"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Invalid date format. Use YYYY-MM-DD"))
	})

	It("returns 404 for an unknown category", func() {
		w := post(`{"category_id":9,"description":"Lunch","amount":12.5,"expense_date":"2024-01-10"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 401 without a user", func() {
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		w := httptest.NewRecorder()
		handler.GetExpenses(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists with count and total of the returned rows", func() {
		Expect(post(`{"category_id":1,"description":"A","amount":10,"expense_date":"2024-01-10"}`).Code).To(Equal(http.StatusCreated))
		Expect(post(`{"category_id":1,"description":"B","amount":20.25,"expense_date":"2024-01-20"}`).Code).To(Equal(http.StatusCreated))
		Expect(post(`{"category_id":1,"description":"C","amount":5,"expense_date":"2024-02-01"}`).Code).To(Equal(http.StatusCreated))

		req := withUser(httptest.NewRequest(http.MethodGet, "/expenses?start_date=2024-01-01&end_date=2024-01-31&limit=1", nil))
		w := httptest.NewRecorder()
		handler.GetExpenses(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Expenses    []map[string]interface{} `json:"expenses"`
			Count       int                      `json:"count"`
			TotalAmount decimal.Decimal          `json:"total_amount"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
		Expect(response.Count).To(Equal(1))
		Expect(response.Expenses[0]["description"]).To(Equal("B"))
		Expect(response.TotalAmount.Equal(decimal.RequireFromString("20.25"))).To(BeTrue())
	})

	It("rejects a malformed start_date", func() {
		req := withUser(httptest.NewRequest(http.MethodGet, "/expenses?start_date=yesterday", nil))
		w := httptest.NewRecorder()
		handler.GetExpenses(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Invalid start_date format"))
	})
})

type categoryExists struct{ db *gorm.DB }

func (c categoryExists) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

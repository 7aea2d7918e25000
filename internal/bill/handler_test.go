package bill_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/bill"
	billPostgres "github.com/frahmantamala/budgetwise/internal/bill/postgres"
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/internal/transport"
)

var _ = Describe("Bill Handler Integration", func() {
	var (
		db     *gorm.DB
		router http.Handler
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		req = req.WithContext(internal.ContextWithUserID(req.Context(), 1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		db = testdb.MustOpen()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := bill.NewService(billPostgres.NewBillRepository(db), events.Nop{}, slogger).
			WithClock(func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) })
		handler := bill.NewHandler(transport.NewBaseHandler(slogger), service)

		r := chi.NewRouter()
		r.Get("/bills", handler.GetBills)
		r.Post("/bills", handler.CreateBill)
		r.Get("/bills/{id}", handler.GetBill)
		r.Put("/bills/{id}", handler.UpdateBill)
		r.Delete("/bills/{id}", handler.DeleteBill)
		r.Post("/bills/{id}/pay", handler.PayBill)
		r.Get("/billpayments", handler.GetPayments)
		router = r

		w := do(http.MethodPost, "/bills", `{"name":"Cleaner","amount":100,"category":"Home","due_date":"2024-03-01","recurring_type":"weekly"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	It("serves derived status and days until due", func() {
		w := do(http.MethodGet, "/bills/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["status"]).To(Equal("overdue"))
		Expect(body["days_until_due"]).To(BeNumerically("==", -4))
		Expect(body["due_date"]).To(Equal("2024-03-01"))
		Expect(body["paid_date"]).To(BeNil())
	})

	It("pays with an explicit date and returns all three records", func() {
		w := do(http.MethodPost, "/bills/1/pay", `{"paid_date":"2024-03-02"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body struct {
			Message       string                 `json:"message"`
			PaidBill      map[string]interface{} `json:"paid_bill"`
			PaymentRecord map[string]interface{} `json:"payment_record"`
			NextBill      map[string]interface{} `json:"next_bill"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Message).To(ContainSubstring("next weekly bill created"))
		Expect(body.PaidBill["status"]).To(Equal("paid"))
		Expect(body.PaymentRecord["was_paid_late"]).To(BeTrue())
		Expect(body.PaymentRecord["days_late"]).To(BeNumerically("==", 1))
		Expect(body.PaymentRecord["amount"]).To(BeNumerically("==", 100))
		Expect(body.NextBill["due_date"]).To(Equal("2024-03-08"))
	})

	It("pays today when no body is sent", func() {
		w := do(http.MethodPost, "/bills/1/pay", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"paid_date":"2024-03-05"`))
	})

	It("rejects a malformed paid date without touching the bill", func() {
		w := do(http.MethodPost, "/bills/1/pay", `{"paid_date":"tomorrow"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Invalid date format. Use YYYY-MM-DD"))

		var payments int64
		db.Model(&billDatamodel.BillPayment{}).Count(&payments)
		Expect(payments).To(BeZero())

		w = do(http.MethodGet, "/bills/1", "")
		Expect(w.Body.String()).To(ContainSubstring(`"status":"overdue"`))
	})

	It("answers 409 when the bill is already paid", func() {
		Expect(do(http.MethodPost, "/bills/1/pay", "").Code).To(Equal(http.StatusOK))

		w := do(http.MethodPost, "/bills/1/pay", "")
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("Bill already paid"))
	})

	It("answers 404 for an unknown bill", func() {
		w := do(http.MethodPost, "/bills/77/pay", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Bill not found"))
	})

	It("updates only the provided fields", func() {
		w := do(http.MethodPut, "/bills/1", `{"amount":120.456}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["name"]).To(Equal("Cleaner"))
		Expect(body["amount"]).To(BeNumerically("==", 120.46))
	})

	It("rejects an empty update", func() {
		Expect(do(http.MethodPut, "/bills/1", `{}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("lists payments with a summary", func() {
		Expect(do(http.MethodPost, "/bills/1/pay", `{"paid_date":"2024-03-02"}`).Code).To(Equal(http.StatusOK))

		w := do(http.MethodGet, "/billpayments", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var body struct {
			Payments []map[string]interface{} `json:"payments"`
			Summary  map[string]interface{}   `json:"summary"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Payments).To(HaveLen(1))
		Expect(body.Summary["count"]).To(BeNumerically("==", 1))
		Expect(body.Summary["late_payments"]).To(BeNumerically("==", 1))
		Expect(body.Summary["average_amount"]).To(BeNumerically("==", 100))
	})

	It("lists bills with a count", func() {
		w := do(http.MethodGet, "/bills?status=overdue", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"count":1`))
	})
})

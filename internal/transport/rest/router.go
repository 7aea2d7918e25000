package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/budgetwise/internal/auth"
	"github.com/frahmantamala/budgetwise/internal/bill"
	"github.com/frahmantamala/budgetwise/internal/budget"
	"github.com/frahmantamala/budgetwise/internal/category"
	"github.com/frahmantamala/budgetwise/internal/expense"
	"github.com/frahmantamala/budgetwise/internal/insights"
	"github.com/frahmantamala/budgetwise/internal/reminder"
	"github.com/frahmantamala/budgetwise/internal/transport/middleware"
	"github.com/frahmantamala/budgetwise/internal/transport/swagger"
	"github.com/frahmantamala/budgetwise/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the resource handlers mounted under /api/v1. A nil handler
// leaves its routes unmounted.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Category *category.Handler
	Expense  *expense.Handler
	Budget   *budget.Handler
	Bill     *bill.Handler
	Reminder *reminder.Handler
	Insights *insights.Handler
}

type Options struct {
	AllowedOrigins string
	DBComponent    string
	Spec           *swagger.Spec
	// Admins gates administrative routes. Without it they stay unmounted.
	Admins         middleware.AdminChecker
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, opts.DBComponent)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.Spec != nil {
		router.Get("/openapi.json", opts.Spec.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler("/openapi.json"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", h.Auth.Register)
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
			})
		}

		// Public categories route (no auth required)
		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Category != nil {
				pr.Post("/categories", h.Category.CreateCategory)
				if opts.Admins != nil {
					pr.With(middleware.RequireAdmin(opts.Admins, logger)).
						Delete("/categories/{id}", h.Category.DeleteCategory)
				}
			}

			if h.Budget != nil {
				pr.Get("/budgets", h.Budget.GetBudgets)
				pr.Post("/budgets", h.Budget.CreateBudget)
			}

			if h.Expense != nil {
				pr.Get("/expenses", h.Expense.GetExpenses)
				pr.Post("/expenses", h.Expense.CreateExpense)
			}

			if h.Bill != nil {
				pr.Route("/bills", func(br chi.Router) {
					br.Get("/", h.Bill.GetBills)
					br.Post("/", h.Bill.CreateBill)
					br.Get("/{id}", h.Bill.GetBill)
					br.Put("/{id}", h.Bill.UpdateBill)
					br.Delete("/{id}", h.Bill.DeleteBill)
					br.Post("/{id}/pay", h.Bill.PayBill)
				})
				pr.Get("/billpayments", h.Bill.GetPayments)
			}

			if h.Reminder != nil {
				pr.Get("/reminders", h.Reminder.GetReminders)
				pr.Post("/reminders", h.Reminder.CreateReminder)
				pr.Post("/reminders/{id}/dismiss", h.Reminder.DismissReminder)
			}

			if h.Insights != nil {
				pr.Get("/dashboard", h.Insights.GetDashboard)
				pr.Get("/insights", h.Insights.GetInsights)
			}
		})
	})
}

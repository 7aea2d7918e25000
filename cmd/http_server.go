package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/auth"
	"github.com/frahmantamala/budgetwise/internal/bill"
	billPostgres "github.com/frahmantamala/budgetwise/internal/bill/postgres"
	"github.com/frahmantamala/budgetwise/internal/budget"
	budgetPostgres "github.com/frahmantamala/budgetwise/internal/budget/postgres"
	"github.com/frahmantamala/budgetwise/internal/category"
	categoryPostgres "github.com/frahmantamala/budgetwise/internal/category/postgres"
	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/internal/expense"
	expensePostgres "github.com/frahmantamala/budgetwise/internal/expense/postgres"
	"github.com/frahmantamala/budgetwise/internal/insights"
	insightsPostgres "github.com/frahmantamala/budgetwise/internal/insights/postgres"
	"github.com/frahmantamala/budgetwise/internal/reminder"
	reminderPostgres "github.com/frahmantamala/budgetwise/internal/reminder/postgres"
	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/internal/transport/rest"
	"github.com/frahmantamala/budgetwise/internal/transport/swagger"
	"github.com/frahmantamala/budgetwise/internal/user"
	userPostgres "github.com/frahmantamala/budgetwise/internal/user/postgres"
	"github.com/frahmantamala/budgetwise/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *gorm.DB
	SQLX      *sqlx.DB
	EventBus  *events.EventBus
	Forwarder *events.AMQPForwarder
	Spec      *swagger.Spec
	Router    *chi.Mux
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	setupRoutes(deps)

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")

		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("server stopped with error", "error", err)
		deps.close()
		os.Exit(1)
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	users := user.NewService(userPostgres.NewUserRepository(deps.DB), lg)
	tokens := auth.NewJWTTokenGenerator(
		deps.Config.Security.JWTAccessSecret,
		deps.Config.Security.JWTRefreshSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(users, tokens, deps.Config.Security.BCryptCost, lg)

	categories := category.NewService(categoryPostgres.NewCategoryRepository(deps.DB), lg)
	budgets := budget.NewService(budgetPostgres.NewBudgetRepository(deps.DB), categories, lg)
	expenses := expense.NewService(expensePostgres.NewExpenseRepository(deps.DB), categories, deps.EventBus, lg)
	bills := bill.NewService(billPostgres.NewBillRepository(deps.DB), deps.EventBus, lg)
	reminders := reminder.NewService(reminderPostgres.NewReminderRepository(deps.DB), lg)
	insightsService := insights.NewService(insightsPostgres.NewInsightsRepository(deps.SQLX), lg)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(base, authService),
		User:     user.NewHandler(base, users),
		Category: category.NewHandler(base, categories),
		Expense:  expense.NewHandler(base, expenses),
		Budget:   budget.NewHandler(base, budgets),
		Bill:     bill.NewHandler(base, bills),
		Reminder: reminder.NewHandler(base, reminders),
		Insights: insights.NewHandler(base, insightsService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.SQLX.DB, handlers, rest.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		DBComponent:    deps.Config.Database.DriverName(),
		Spec:           deps.Spec,
		Admins:         users,
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlxDB, err := initSQLX(db, config.Database)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	var forwarder *events.AMQPForwarder
	if config.Events.AMQPURL != "" {
		forwarder, err = events.DialAMQPForwarder(config.Events.AMQPURL, config.Events.Exchange, lg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event broker: %w", err)
		}
		bus.Subscribe(events.Wildcard, forwarder.Handle)
	}

	var spec *swagger.Spec
	if config.Server.OpenAPIPath != "" {
		spec, err = swagger.Load(context.Background(), config.Server.OpenAPIPath)
		if err != nil {
			// docs are optional; the API still serves without them
			lg.Warn("openapi document not loaded", "path", config.Server.OpenAPIPath, "error", err)
		}
	}

	return &Dependencies{
		Config:    config,
		DB:        db,
		SQLX:      sqlxDB,
		EventBus:  bus,
		Forwarder: forwarder,
		Spec:      spec,
		Router:    chi.NewRouter(),
		Logger:    lg,
	}, nil
}

func (d *Dependencies) close() {
	if d.Forwarder != nil {
		if err := d.Forwarder.Close(); err != nil {
			d.Logger.Error("event forwarder close error", "error", err)
		}
		d.Forwarder = nil
	}
	if d.SQLX != nil {
		if err := d.SQLX.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
		d.SQLX = nil
	}
}

// initDB opens GORM on the configured driver and applies the pool settings.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DriverName() {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// initSQLX shares GORM's pool with sqlx for the aggregate read queries.
func initSQLX(db *gorm.DB, cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, sqlDriverName(cfg)), nil
}

// sqlDriverName is the database/sql driver name, which sqlx and goose use
// to pick their bind style and dialect.
func sqlDriverName(cfg internal.DatabaseConfig) string {
	if cfg.DriverName() == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/budgetwise/internal/auth"
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
	categoryDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	reminderDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/reminder"
	userDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/user"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with categories, a regular user and a demo user with budgets, expenses, bills and reminders.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := clearTables(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Existing data cleared")
		}

		categories, err := seedCategories(db)
		if err != nil {
			log.Fatalf("failed to seed categories: %v", err)
		}

		today := datex.Today(time.Now)
		for _, s := range seedUsers {
			var existing int64
			if err := db.Model(&userDatamodel.User{}).Where("email = ?", s.Email).Count(&existing).Error; err != nil {
				log.Fatalf("failed to look up user %s: %v", s.Email, err)
			}
			if existing > 0 {
				fmt.Println("user already exists; skipping its sample data:", s.Email)
				continue
			}

			hash, err := auth.HashPassword(s.Password, cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password: %v", err)
			}

			u := userDatamodel.User{Username: s.Username, Email: s.Email, PasswordHash: hash, IsDemoUser: s.Demo}
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", s.Email, err)
			}

			if err := seedUserData(db, u.ID, s, categories, today); err != nil {
				log.Fatalf("failed to seed data for %s: %v", s.Email, err)
			}
			fmt.Printf("Seeded user %s (password: %s)\n", s.Email, s.Password)
		}

		fmt.Println("Seeding completed")
	},
}

type seedUser struct {
	Username string
	Email    string
	Password string
	Demo     bool
	Budgets  map[string]int64
}

var seedUsers = []seedUser{
	{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "password123",
		Budgets: map[string]int64{
			"Food & Dining":     500,
			"Transportation":    250,
			"Bills & Utilities": 350,
			"Entertainment":     150,
			"Shopping":          200,
		},
	},
	{
		Username: "demo_user",
		Email:    "demo@example.com",
		Password: "demo1234",
		Demo:     true,
		Budgets: map[string]int64{
			"Food & Dining":     300,
			"Transportation":    150,
			"Bills & Utilities": 250,
			"Entertainment":     100,
		},
	},
}

var seedCategoryList = []struct {
	Name string
	Desc string
}{
	{"Food & Dining", "Restaurants, groceries, takeout"},
	{"Transportation", "Gas, public transport, car maintenance"},
	{"Bills & Utilities", "Electricity, water, internet, phone"},
	{"Entertainment", "Movies, games, subscriptions"},
	{"Shopping", "Clothing, electronics, general shopping"},
	{"Healthcare", "Medical expenses, insurance, pharmacy"},
	{"Other", "Miscellaneous expenses"},
}

// clearTables deletes children before parents.
func clearTables(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		models := []interface{}{
			&reminderDatamodel.Reminder{},
			&billDatamodel.BillPayment{},
			&billDatamodel.Bill{},
			&expenseDatamodel.Expense{},
			&budgetDatamodel.Budget{},
			&categoryDatamodel.Category{},
			&userDatamodel.User{},
		}
		for _, m := range models {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedCategories(db *gorm.DB) (map[string]int64, error) {
	ids := make(map[string]int64, len(seedCategoryList))
	for _, c := range seedCategoryList {
		var cat categoryDatamodel.Category
		res := db.Where("name = ?", c.Name).Limit(1).Find(&cat)
		if res.Error != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			desc := c.Desc
			cat = categoryDatamodel.Category{Name: c.Name, Description: &desc}
			if err := db.Create(&cat).Error; err != nil {
				return nil, fmt.Errorf("category %s: %w", c.Name, err)
			}
			fmt.Printf("Seeded category: %s\n", c.Name)
		}
		ids[c.Name] = cat.ID
	}
	return ids, nil
}

func seedUserData(db *gorm.DB, userID int64, s seedUser, categories map[string]int64, today datex.Date) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for name, amount := range s.Budgets {
			b := budgetDatamodel.Budget{UserID: userID, CategoryID: categories[name], BudgetedAmount: decimal.NewFromInt(amount)}
			if err := tx.Create(&b).Error; err != nil {
				return fmt.Errorf("budget %s: %w", name, err)
			}
		}

		expenses := []struct {
			Category    string
			Description string
			Amount      string
			DaysAgo     int
		}{
			{"Food & Dining", "Grocery shopping", "64.20", 1},
			{"Food & Dining", "Restaurant dinner", "38.50", 4},
			{"Transportation", "Gas station", "45.00", 6},
			{"Bills & Utilities", "Internet bill", "59.99", 10},
			{"Entertainment", "Movie tickets", "18.00", 12},
			{"Food & Dining", "Coffee shop", "4.75", 20},
			{"Shopping", "Clothing", "72.30", 33},
		}
		for _, e := range expenses {
			row := expenseDatamodel.Expense{
				UserID:      userID,
				CategoryID:  categories[e.Category],
				Description: e.Description,
				Amount:      decimal.RequireFromString(e.Amount),
				ExpenseDate: today.AddDays(-e.DaysAgo),
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("expense %s: %w", e.Description, err)
			}
		}

		bills := []struct {
			Name      string
			Amount    string
			Category  string
			DueInDays int
			Recurring string
		}{
			{"Electricity Bill", "96.40", "Bills & Utilities", 5, "monthly"},
			{"Internet Bill", "59.99", "Bills & Utilities", 12, "monthly"},
			{"Netflix Subscription", "15.00", "Entertainment", -2, "monthly"},
			{"Car Insurance", "480.00", "Transportation", 40, "yearly"},
		}
		for _, b := range bills {
			row := billDatamodel.Bill{
				UserID:        userID,
				Name:          b.Name,
				Amount:        decimal.RequireFromString(b.Amount),
				Category:      b.Category,
				DueDate:       today.AddDays(b.DueInDays),
				RecurringType: b.Recurring,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("bill %s: %w", b.Name, err)
			}
		}

		reminders := []struct {
			Message string
			Type    string
		}{
			{"Bill Due: Electricity bill is due in 5 days", "bill_due"},
			{"Remember to review your monthly expenses", "custom"},
		}
		for _, r := range reminders {
			row := reminderDatamodel.Reminder{UserID: userID, Message: r.Message, ReminderType: r.Type, IsActive: true}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("reminder: %w", err)
			}
		}
		return nil
	})
}

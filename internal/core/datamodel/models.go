// Package datamodel lists the GORM models that make up the schema.
package datamodel

import (
	billDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/bill"
	budgetDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/budget"
	categoryDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/expense"
	reminderDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/reminder"
	userDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/user"
)

// All returns every model in dependency order, parents first.
func All() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&categoryDatamodel.Category{},
		&budgetDatamodel.Budget{},
		&expenseDatamodel.Expense{},
		&billDatamodel.Bill{},
		&billDatamodel.BillPayment{},
		&reminderDatamodel.Reminder{},
	}
}

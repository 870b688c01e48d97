package models

import "time"

// Budget is a named, date-bounded spending plan. No two non-deleted
// budgets may have overlapping [StartDate, EndDate) windows; the budget
// service enforces this on create and update, and the postgres schema
// backs it with a range-exclusion constraint.
type Budget struct {
	Base
	Name        string    `gorm:"not null;index" json:"name"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	Deleted     bool      `gorm:"not null;default:false" json:"deleted"`

	BudgetBills []BudgetBill `gorm:"foreignKey:BudgetID" json:"budget_bills,omitempty"`
}

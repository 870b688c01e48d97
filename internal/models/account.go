package models

import "github.com/shopspring/decimal"

// Account represents a financial account where money is held. The
// account_type tag is opaque to the core; it only matters for display.
//
// Balance is never written directly by handlers: it changes only through
// the settlement engine and the explicit fund operations, each of which
// pairs the mutation with a ledger Transaction.
type Account struct {
	Base
	Name        string          `gorm:"not null;index" json:"name"`
	AccountType string          `gorm:"not null" json:"account_type"`
	Description string          `json:"description,omitempty"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	Enabled     bool            `gorm:"not null;default:true" json:"enabled"`
	Deleted     bool            `gorm:"not null;default:false" json:"deleted"`
}

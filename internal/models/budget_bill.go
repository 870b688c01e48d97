package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetBill associates one occurrence of a Bill with a Budget. It
// carries its own payment account (which may differ from the bill's
// default), budgeted and paid amounts, and the occurrence due date.
//
// A BudgetBill is unpaid while PaidOn is nil and becomes paid through
// the settlement engine, which appends the ledger transactions and
// adjusts account balances in the same database transaction.
type BudgetBill struct {
	Base
	BudgetID          string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	BillID            string          `gorm:"type:uuid;not null" json:"bill_id"`
	AccountID         string          `gorm:"type:uuid;not null" json:"account_id"`
	TransferAccountID *string         `gorm:"type:uuid" json:"transfer_account_id,omitempty"`
	BudgetedAmount    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"budgeted_amount"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"paid_amount"`
	PaidOn            *time.Time      `json:"paid_on,omitempty"`
	Note              string          `json:"note,omitempty"`

	Budget Budget `gorm:"foreignKey:BudgetID" json:"-"`
	Bill   Bill   `gorm:"foreignKey:BillID" json:"-"`
}

// Paid reports whether the budget bill has been settled.
func (bb *BudgetBill) Paid() bool {
	return bb.PaidOn != nil && bb.PaidAmount.IsPositive()
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	// TransactionTypeCredit is money added to an account.
	TransactionTypeCredit TransactionType = "credit"
	// TransactionTypeDebit is money removed from an account.
	TransactionTypeDebit TransactionType = "debit"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction is an immutable, append-only ledger entry. Every balance
// mutation in the system is paired with exactly one Transaction
// describing it. Amounts are unsigned; the type carries the direction.
type Transaction struct {
	Base
	AccountID       string          `gorm:"type:uuid;not null;index" json:"account_id"`
	BudgetBillID    *string         `gorm:"type:uuid;index" json:"budgetbill_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	TransactionType TransactionType `gorm:"not null;default:'debit'" json:"transaction_type"`
	OccurredAt      time.Time       `gorm:"not null" json:"occurred_at"`
	Note            string          `json:"note,omitempty"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

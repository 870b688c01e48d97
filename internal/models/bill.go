package models

import (
	"time"

	"github.com/shopspring/decimal"

	"fiscus/internal/schedule"
)

// PaymentMethod indicates how a bill is paid.
type PaymentMethod string

const (
	PaymentMethodManual    PaymentMethod = "manual"
	PaymentMethodAutomatic PaymentMethod = "automatic"
	// PaymentMethodTransfer pays the bill by moving money to a second
	// account instead of leaving the system. Bills with this method must
	// carry a TransferAccountID distinct from AccountID.
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodManual, PaymentMethodAutomatic, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Bill is a recurring or one-off planned expense tied to a payment
// account. StartFreq anchors the recurrence series.
type Bill struct {
	Base
	AccountID         string             `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID        *string            `gorm:"type:uuid" json:"category_id,omitempty"`
	TransferAccountID *string            `gorm:"type:uuid" json:"transfer_account_id,omitempty"`
	Name              string             `gorm:"not null;index" json:"name"`
	Description       string             `json:"description,omitempty"`
	BudgetedAmount    decimal.Decimal    `gorm:"type:decimal(20,2);not null;default:0" json:"budgeted_amount"`
	Frequency         schedule.Frequency `gorm:"not null;default:'monthly'" json:"frequency"`
	PaymentMethod     PaymentMethod      `gorm:"not null;default:'manual'" json:"payment_method"`
	StartFreq         time.Time          `gorm:"not null" json:"start_freq"`
	Enabled           bool               `gorm:"not null;default:true" json:"enabled"`
	Deleted           bool               `gorm:"not null;default:false" json:"deleted"`

	Account  Account   `gorm:"foreignKey:AccountID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

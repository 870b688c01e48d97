package models

import (
	"time"

	"github.com/shopspring/decimal"

	"fiscus/internal/schedule"
)

// Income is a recurring or one-time income source deposited into an
// account. Like bills, StartFreq anchors the recurrence series.
type Income struct {
	Base
	AccountID   string             `gorm:"type:uuid;not null;index" json:"account_id"`
	Name        string             `gorm:"not null;index" json:"name"`
	Description string             `json:"description,omitempty"`
	Amount      decimal.Decimal    `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Frequency   schedule.Frequency `gorm:"not null;default:'monthly'" json:"frequency"`
	StartFreq   time.Time          `gorm:"not null" json:"start_freq"`
	Enabled     bool               `gorm:"not null;default:true" json:"enabled"`
	Deleted     bool               `gorm:"not null;default:false" json:"deleted"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

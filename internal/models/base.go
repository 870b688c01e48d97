package models

import (
	"time"

	"fiscus/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Primary keys are
// time-sortable UUIDv7 strings; timestamps are stored in UTC.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

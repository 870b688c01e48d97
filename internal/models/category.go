package models

// Category classifies bills by spending type (utilities, groceries, ...).
// Names are unique across non-deleted categories.
type Category struct {
	Base
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `gorm:"not null;default:true" json:"enabled"`
	Deleted     bool   `gorm:"not null;default:false" json:"deleted"`
}

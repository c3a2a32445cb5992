package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog entry. Orders snapshot product fields into
// their items at purchase time, so edits here never touch historical orders.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null;check:price >= 0" json:"price"`
	ImageKey    *string        `json:"image_key,omitempty"`
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	Category    string         `gorm:"index" json:"category"`
	Flavors     string         `json:"flavors"` // comma-separated flavor tags
	Featured    bool           `gorm:"index" json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

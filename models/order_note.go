package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderNote represents a note in an order conversation between the customer
// and bakery staff, typically used to pin down custom cake details
type OrderNote struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"` // don't include full order in JSON
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderNote model
func (OrderNote) TableName() string {
	return "order_notes"
}

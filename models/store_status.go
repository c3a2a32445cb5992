package models

import "time"

// StoreStatus is a single-row flag gating whether new orders may be placed.
// It is checked by the add-to-cart path, not by the order APIs: browsing and
// managing existing orders stay available while the store is offline.
type StoreStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IsOnline  bool      `gorm:"not null;default:true" json:"is_online"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the StoreStatus model
func (StoreStatus) TableName() string {
	return "store_statuses"
}

package models

import (
	"time"
)

// PaymentTask records a verified payment whose order write has not completed
// yet. It is written before the order write is attempted, so a crash between
// gateway capture and persistence can always be recovered by replaying the
// task. Tasks are keyed by payment id: re-enqueueing the same payment is an
// upsert, never a second charge.
type PaymentTask struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PaymentID     string     `gorm:"uniqueIndex;not null" json:"payment_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	OrderID       *uint      `gorm:"index" json:"order_id,omitempty"` // nil for not-yet-persisted cart checkouts
	OrderPayload  string     `gorm:"type:text" json:"-"`              // JSON snapshot of the order to write
	Signature     *string    `json:"-"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastError     *string    `json:"last_error,omitempty"`
	CompletedAt   *time.Time `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the PaymentTask model
func (PaymentTask) TableName() string {
	return "payment_tasks"
}

// Pending reports whether the order write is still owed
func (t *PaymentTask) Pending() bool {
	return t.CompletedAt == nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon represents a promotional code. Coupons are promotional, not
// vouchers: validation is stateless and any customer can reapply an active
// coupon.
type Coupon struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"uniqueIndex;not null" json:"code"` // matched case-insensitively
	DiscountType   string         `gorm:"not null" json:"discount_type"`    // percentage or fixed
	DiscountValue  float64        `gorm:"not null" json:"discount_value"`
	MinOrderAmount float64        `json:"min_order_amount"`
	ValidFrom      time.Time      `gorm:"not null" json:"valid_from"` // window is inclusive at both ends
	ValidUntil     time.Time      `gorm:"not null" json:"valid_until"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// DiscountFor computes the discount this coupon grants against the given
// order amount. The caller clamps the final total, so a fixed discount larger
// than the amount is returned as is.
func (c *Coupon) DiscountFor(orderAmount float64) float64 {
	if c.DiscountType == DiscountTypePercentage {
		return orderAmount * c.DiscountValue / 100
	}
	return c.DiscountValue
}

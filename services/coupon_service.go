package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"gorm.io/gorm"
)

// Coupon error codes
const (
	CouponNotFound      = "COUPON_NOT_FOUND"
	CouponNotYetValid   = "COUPON_NOT_YET_VALID"
	CouponExpired       = "COUPON_EXPIRED"
	CouponMinimumNotMet = "COUPON_MINIMUM_NOT_MET"
)

// CouponError represents a coupon validation failure with a stable code
type CouponError struct {
	Code    string
	Message string
}

func (e *CouponError) Error() string {
	return e.Message
}

// nowFunc returns the current time; overridable in tests to pin the clock
var nowFunc = time.Now

// ValidateCoupon checks a code against an order amount and the coupon's time
// window. Lookup is a case-insensitive exact match restricted to active
// coupons. The window is inclusive at both instants. Validation is stateless:
// coupons are not consumed, and every call is independent.
func ValidateCoupon(db *gorm.DB, code string, orderAmount float64) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("LOWER(code) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(code)), true).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CouponError{
				Code:    CouponNotFound,
				Message: fmt.Sprintf("No active coupon found with code: %s", code),
			}
		}
		return nil, fmt.Errorf("coupon lookup failed: %w", err)
	}

	now := nowFunc()
	if now.Before(coupon.ValidFrom) {
		return nil, &CouponError{
			Code:    CouponNotYetValid,
			Message: fmt.Sprintf("Coupon %q is valid from %s", coupon.Code, coupon.ValidFrom.Format("02 Jan 2006")),
		}
	}
	if now.After(coupon.ValidUntil) {
		return nil, &CouponError{
			Code:    CouponExpired,
			Message: fmt.Sprintf("Coupon %q expired on %s", coupon.Code, coupon.ValidUntil.Format("02 Jan 2006")),
		}
	}

	if coupon.MinOrderAmount > 0 && orderAmount < coupon.MinOrderAmount {
		return nil, &CouponError{
			Code:    CouponMinimumNotMet,
			Message: fmt.Sprintf("Requires a minimum order of ₹%.0f (current: ₹%.2f)", coupon.MinOrderAmount, orderAmount),
		}
	}

	return &coupon, nil
}

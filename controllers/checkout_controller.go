package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
	"gorm.io/gorm"
)

// QuoteRequest represents a cart to be priced server-side
type QuoteRequest struct {
	Items      []models.CartItem `json:"items" binding:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code"`
}

// QuoteCheckout handles POST /api/v1/checkout/quote - recomputes subtotal,
// discount and final total for a cart. The coupon is re-validated against the
// current subtotal on every call; a stale client-side discount is never
// trusted. The store-open flag gates this path, not the order APIs.
func QuoteCheckout(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if !storeIsOnline(db) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_OFFLINE",
				"message": "The bakery is not taking orders right now",
			},
		})
		return
	}

	cart := models.Cart{}
	for _, item := range req.Items {
		if err := cart.AddItem(item); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	if req.CouponCode != "" {
		coupon, err := services.ValidateCoupon(db, req.CouponCode, cart.Subtotal())
		if err != nil {
			respondDomainError(c, err)
			return
		}
		cart.ApplyCoupon(coupon)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"subtotal":        cart.Subtotal(),
			"discount_amount": cart.DiscountAmount(),
			"final_total":     cart.FinalTotal(),
			"coupon":          cart.Coupon,
		},
	})
}

// ConfirmCheckoutRequest represents the gateway success callback for a cart
// checkout that has no persisted order yet
type ConfirmCheckoutRequest struct {
	Customer   CustomerPayload   `json:"customer" binding:"required"`
	Items      []models.CartItem `json:"items" binding:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code"`

	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Notes   string `json:"notes"`

	IntentID  string  `json:"intent_id" binding:"required"`
	PaymentID string  `json:"payment_id" binding:"required"`
	Signature *string `json:"signature"`
}

// ConfirmCheckout handles POST /api/v1/checkout/confirm - persists a paid
// cart checkout as a new confirmed order. Totals are recomputed and the
// signature verified before anything durable happens; after verification the
// write goes through the payment outbox so a failed write is recoverable.
func ConfirmCheckout(c *gin.Context) {
	var req ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	cart := models.Cart{}
	for _, item := range req.Items {
		if err := cart.AddItem(item); err != nil {
			respondDomainError(c, err)
			return
		}
	}
	if req.CouponCode != "" {
		coupon, err := services.ValidateCoupon(db, req.CouponCode, cart.Subtotal())
		if err != nil {
			respondDomainError(c, err)
			return
		}
		cart.ApplyCoupon(coupon)
	}

	if req.Signature != nil {
		gateway := services.GetRazorpayService()
		if !gateway.VerifySignature(req.IntentID, req.PaymentID, *req.Signature) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    services.PaymentIntentFailed,
					"message": "Invalid payment signature",
				},
			})
			return
		}
	}

	customer := models.CustomerDetails{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone}
	order, err := models.NewSimpleOrder(customer, cart.OrderItems(), cart.Subtotal(), cart.DiscountAmount(), true)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if cart.Coupon != nil {
		code := cart.Coupon.Code
		discountType := cart.Coupon.DiscountType
		discountValue := cart.Coupon.DiscountValue
		order.CouponCode = &code
		order.CouponDiscountType = &discountType
		order.CouponDiscountValue = &discountValue
	}
	order.Address = req.Address
	order.City = req.City
	order.State = req.State
	order.Pincode = req.Pincode
	order.Notes = req.Notes

	created, err := services.ConfirmCartCheckout(db, order, req.PaymentID, cart.FinalTotal(), req.Signature)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	// The client clears its cart on this response.
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    created,
	})
}

// storeIsOnline reads the single-row store flag; a missing row means open
func storeIsOnline(db *gorm.DB) bool {
	var status models.StoreStatus
	if err := db.First(&status).Error; err != nil {
		return true
	}
	return status.IsOnline
}

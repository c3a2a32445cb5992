package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

// ValidateCouponRequest represents the public validation endpoint input
type ValidateCouponRequest struct {
	Code   string   `json:"code" binding:"required"`
	Amount *float64 `json:"amount" binding:"required,gte=0"`
}

// ValidateCouponCode handles POST /api/v1/coupons/validate - checks a code
// against an order amount. Validity is evaluated fresh on every attempt.
func ValidateCouponCode(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A coupon code and a non-negative amount are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	coupon, err := services.ValidateCoupon(db, req.Code, *req.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"coupon":          coupon,
			"discount_amount": coupon.DiscountFor(*req.Amount),
		},
	})
}

// ListCoupons handles GET /api/v1/coupons - lists all coupons for staff
func ListCoupons(c *gin.Context) {
	db := config.GetDB()
	var coupons []models.Coupon
	if err := db.Order("created_at desc").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch coupons",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupons,
	})
}

// CouponRequest represents the request body for creating or updating a coupon
type CouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	DiscountType   string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  float64   `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount float64   `json:"min_order_amount" binding:"gte=0"`
	ValidFrom      time.Time `json:"valid_from" binding:"required"`
	ValidUntil     time.Time `json:"valid_until" binding:"required"`
	IsActive       *bool     `json:"is_active"`
}

// CreateCoupon handles POST /api/v1/coupons - creates a promotional code
func CreateCoupon(c *gin.Context) {
	var req CouponRequest
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

	if req.ValidUntil.Before(req.ValidFrom) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "valid_until must not be before valid_from",
			},
		})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon := models.Coupon{
		Code:           req.Code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		IsActive:       active,
	}

	db := config.GetDB()
	if err := db.Create(&coupon).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "COUPON_EXISTS",
					"message": "A coupon with this code already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create coupon",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// UpdateCoupon handles PUT /api/v1/coupons/:id - edits a promotional code
func UpdateCoupon(c *gin.Context) {
	var req CouponRequest
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
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	coupon.Code = req.Code
	coupon.DiscountType = req.DiscountType
	coupon.DiscountValue = req.DiscountValue
	coupon.MinOrderAmount = req.MinOrderAmount
	coupon.ValidFrom = req.ValidFrom
	coupon.ValidUntil = req.ValidUntil
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := db.Save(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update coupon",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// DeleteCoupon handles DELETE /api/v1/coupons/:id - removes a promotional code
func DeleteCoupon(c *gin.Context) {
	db := config.GetDB()
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	if err := db.Delete(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete coupon",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon deleted",
	})
}

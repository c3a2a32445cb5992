package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

// CustomerPayload carries the customer identity in order requests
type CustomerPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// CreateOrderRequest represents the request body for creating an order.
// The payload is discriminated by type: simple orders carry items, custom
// orders carry the cake spec.
type CreateOrderRequest struct {
	Type     string          `json:"type" binding:"required,oneof=simple custom"`
	Customer CustomerPayload `json:"customer" binding:"required"`

	// Simple orders
	Items         []models.CartItem `json:"items"`
	CouponCode    string            `json:"coupon_code"`
	PaymentStatus string            `json:"payment_status"` // "paid" marks a pre-verified flow

	// Custom orders
	Occasion     string     `json:"occasion"`
	CakeSize     string     `json:"cake_size"`
	Flavor       string     `json:"flavor"`
	Description  string     `json:"description"`
	ImageKey     *string    `json:"image_key"`
	RequiredDate *time.Time `json:"required_date"`

	// Shipping, captured client-side before the payment step
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Notes   string `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders - creates a simple or custom order
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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
	customer := models.CustomerDetails{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone}

	var order *models.Order
	var err error

	switch req.Type {
	case models.OrderTypeSimple:
		// Totals are always recomputed server-side; a client-supplied
		// discount is never trusted.
		cart := models.Cart{}
		for _, item := range req.Items {
			if addErr := cart.AddItem(item); addErr != nil {
				respondDomainError(c, addErr)
				return
			}
		}

		if req.CouponCode != "" {
			coupon, couponErr := services.ValidateCoupon(db, req.CouponCode, cart.Subtotal())
			if couponErr != nil {
				respondDomainError(c, couponErr)
				return
			}
			cart.ApplyCoupon(coupon)
		}

		order, err = models.NewSimpleOrder(customer, cart.OrderItems(), cart.Subtotal(), cart.DiscountAmount(), req.PaymentStatus == models.PaymentStatusPaid)
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

	case models.OrderTypeCustom:
		order, err = models.NewCustomOrder(customer, req.Occasion, req.CakeSize, req.Flavor, req.Description, req.RequiredDate)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		order.ImageKey = req.ImageKey
	}

	order.Address = req.Address
	order.City = req.City
	order.State = req.State
	order.Pincode = req.Pincode
	order.Notes = req.Notes

	if err := db.Create(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	attachOrderImageURL(&order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"allowed_transitions": models.AllowedTransitions(order.Status),
	})
}

// ListOrders handles GET /api/v1/orders - lists orders for staff, with
// optional status and phone filters
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Preload("Items").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("customer_phone = ?", phone)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("customer_name LIKE ? OR customer_email LIKE ?", like, like)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// MyOrders handles GET /api/v1/orders/my - customer-facing order history,
// scoped to a single phone number so nobody sees another customer's orders
func MyOrders(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Phone number is required",
			},
		})
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Items").Where("customer_phone = ?", phone).Order("created_at desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderRequest represents the request body for staff order updates.
// Price and status can change together; the price-set auto-advance applies
// before the requested status is considered.
type UpdateOrderRequest struct {
	Status  *string  `json:"status"`
	Price   *float64 `json:"price"`
	Address *string  `json:"address"`
	City    *string  `json:"city"`
	State   *string  `json:"state"`
	Pincode *string  `json:"pincode"`
}

// UpdateOrder handles PUT /api/v1/orders/:id - staff-facing mutations:
// set price, advance status, update shipping details
func UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
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
	var order models.Order
	if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if req.Price != nil {
		if err := order.ApplyPrice(*req.Price); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	if req.Status != nil && *req.Status != order.Status {
		if err := order.Transition(*req.Status); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	if req.Address != nil {
		order.Address = *req.Address
	}
	if req.City != nil {
		order.City = *req.City
	}
	if req.State != nil {
		order.State = *req.State
	}
	if req.Pincode != nil {
		order.Pincode = *req.Pincode
	}

	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"allowed_transitions": models.AllowedTransitions(order.Status),
	})
}

// attachOrderImageURL fills the computed presigned URL for a custom order's
// reference image, when an image service is configured
func attachOrderImageURL(order *models.Order) {
	imageService := services.GetImageService()
	if imageService == nil || order.ImageKey == nil {
		return
	}
	if url, err := imageService.GetImageURL(*order.ImageKey); err == nil && url != "" {
		order.ImageURL = &url
	}
}

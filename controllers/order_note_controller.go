package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/middleware"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
)

// SendOrderNoteRequest represents the request body for adding an order note
type SendOrderNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendOrderNote handles POST /api/v1/orders/:id/notes - adds a note to an order.
// Notes carry the back-and-forth over custom cake details (inscription wording,
// delivery timing, design tweaks).
func SendOrderNote(c *gin.Context) {
	// Extract Auth0 user ID from JWT token
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.PureJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	// Find the user in the database
	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return
	}

	// Get order ID from URL parameter
	orderID := c.Param("id")
	if orderID == "" {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID is required",
			},
		})
		return
	}

	// Fetch the order
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// Authorization check: customers can only note on their own orders,
	// matched by the phone number the order was placed with. Admins can
	// note on any order.
	canNote := user.IsAdmin() || order.CustomerPhone == user.Phone

	if !canNote {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to add notes to this order",
			},
		})
		return
	}

	// Parse request body
	var req SendOrderNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// Create the note
	note := models.OrderNote{
		OrderID:  order.ID,
		AuthorID: user.ID,
		Text:     req.Text,
	}

	if err := db.Create(&note).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create note",
			},
		})
		return
	}

	// Load the author relationship to return complete data
	if err := db.Preload("Author").First(&note, note.ID).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load note details",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    note,
	})
}

// GetOrderNotes handles GET /api/v1/orders/:id/notes - lists notes on an order
func GetOrderNotes(c *gin.Context) {
	// Extract Auth0 user ID from JWT token
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.PureJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	// Find the user in the database
	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return
	}

	// Get order ID from URL parameter
	orderID := c.Param("id")
	if orderID == "" {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID is required",
			},
		})
		return
	}

	// Fetch the order
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// Authorization check mirrors SendOrderNote
	canView := user.IsAdmin() || order.CustomerPhone == user.Phone

	if !canView {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view notes on this order",
			},
		})
		return
	}

	// Fetch notes for this order, oldest first
	var notes []models.OrderNote
	if err := db.Where("order_id = ?", order.ID).
		Preload("Author").
		Order("created_at ASC").
		Find(&notes).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch notes",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notes,
	})
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

// CreateIntentRequest represents the request body for creating a payment
// intent, either for an existing order or for a raw cart amount
type CreateIntentRequest struct {
	OrderID *uint    `json:"order_id"`
	Amount  *float64 `json:"amount"`
}

// CreatePaymentIntent handles POST /api/v1/payments/intent - asks the
// gateway for a payment order. Gateway errors never mutate any order.
func CreatePaymentIntent(c *gin.Context) {
	var req CreateIntentRequest
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

	var amount float64
	switch {
	case req.OrderID != nil:
		db := config.GetDB()
		var order models.Order
		if err := db.First(&order, *req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		toPay, err := order.AmountToPay()
		if err != nil {
			respondDomainError(c, err)
			return
		}
		amount = toPay
	case req.Amount != nil && *req.Amount > 0:
		amount = models.ChargeableAmount(*req.Amount, 0)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Either order_id or a positive amount is required",
			},
		})
		return
	}

	gateway := services.GetRazorpayService()
	intent, err := gateway.CreateIntent(amount)
	if err != nil {
		respondDomainError(c, &services.PaymentError{
			Code:    services.PaymentIntentFailed,
			Message: "Payment could not be initiated. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"intent": intent,
			"key":    gateway.KeyID(),
		},
	})
}

// ConfirmPaymentRequest represents the gateway success callback for an
// existing order
type ConfirmPaymentRequest struct {
	OrderID   uint    `json:"order_id" binding:"required"`
	PaymentID string  `json:"payment_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Signature *string `json:"signature"`
}

// ConfirmPayment handles POST /api/v1/payments/confirm - verifies the
// callback and reconciles the order. The signature is recomputed server-side
// and a mismatch fails closed before anything is written.
func ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
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

	if req.Signature != nil {
		gateway := services.GetRazorpayService()
		if !gateway.VerifySignature(fmt.Sprintf("%d", req.OrderID), req.PaymentID, *req.Signature) {
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

	db := config.GetDB()
	order, err := services.ConfirmOrderPayment(db, req.OrderID, req.PaymentID, req.Amount, req.Signature)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order payment confirmed",
		"data":    order,
	})
}

// ListPaymentTasks handles GET /api/v1/payments/tasks - shows outbox entries
// whose order write is still owed, so staff can see stuck reconciliations
func ListPaymentTasks(c *gin.Context) {
	db := config.GetDB()
	tasks, err := services.PendingPaymentTasks(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch payment tasks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
	})
}

// RetryPaymentTask handles POST /api/v1/payments/tasks/:id/retry - replays a
// pending order write. The gateway is never called again: funds were already
// captured before the task was recorded.
func RetryPaymentTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid task id",
			},
		})
		return
	}

	db := config.GetDB()
	order, replayErr := services.ReplayPaymentTask(db, uint(taskID))
	if replayErr != nil {
		respondDomainError(c, replayErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment task replayed",
		"data":    order,
	})
}

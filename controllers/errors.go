package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

// respondDomainError maps typed service and model errors onto the standard
// error envelope. Anything unrecognized is reported as a database error
// without leaking internals to the caller.
func respondDomainError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *models.OrderError:
		status := http.StatusBadRequest
		switch e.Code {
		case "NOT_FOUND":
			status = http.StatusNotFound
		case "INVALID_TRANSITION", "PRICE_NOT_SET":
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    e.Code,
				"message": e.Message,
			},
		})
	case *services.CouponError:
		status := http.StatusBadRequest
		if e.Code == services.CouponNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    e.Code,
				"message": e.Message,
			},
		})
	case *services.PaymentError:
		status := http.StatusBadGateway
		if e.Code == services.PersistenceAfterPaymentFailed {
			// Funds are captured; the message carries the payment id so the
			// customer can reach support.
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    e.Code,
				"message": e.Message,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Something went wrong. Please try again.",
			},
		})
	}
}

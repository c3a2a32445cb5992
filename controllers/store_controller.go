package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"gorm.io/gorm"
)

// GetStoreStatus handles GET /api/v1/store-status - reads the store-open
// flag. A missing row means the store is open.
func GetStoreStatus(c *gin.Context) {
	db := config.GetDB()

	var status models.StoreStatus
	if err := db.First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"is_online": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch store status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"is_online": status.IsOnline,
	})
}

// UpdateStoreStatusRequest represents the store toggle payload
type UpdateStoreStatusRequest struct {
	IsOnline *bool `json:"is_online" binding:"required"`
}

// UpdateStoreStatus handles PUT /api/v1/store-status - toggles whether new
// orders may be placed. Browsing and existing orders keep working offline.
func UpdateStoreStatus(c *gin.Context) {
	var req UpdateStoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "is_online is required",
			},
		})
		return
	}

	db := config.GetDB()

	var status models.StoreStatus
	err := db.First(&status).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = models.StoreStatus{IsOnline: *req.IsOnline}
		err = db.Create(&status).Error
	case err == nil:
		status.IsOnline = *req.IsOnline
		err = db.Save(&status).Error
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update store status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"is_online": status.IsOnline,
	})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
	"github.com/priya-bakes/sugarplum-bakery-api/utils"
)

// UploadImage handles POST /api/v1/uploads - uploads a cake reference image.
// The returned key is what custom order requests carry in their image_key field.
func UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "Image file is required (use the 'image' form field)",
			},
		})
		return
	}

	imageService := services.GetImageService()
	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload image",
			},
		})
		return
	}

	imageURL, err := imageService.GetImageURL(imageKey)
	if err != nil {
		// The upload succeeded; return the key even if the presigned URL failed
		imageURL = ""
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"image_key": imageKey,
			"image_url": imageURL,
		},
	})
}

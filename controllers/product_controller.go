package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

// ListProducts handles GET /api/v1/products - lists catalog entries with
// optional category and featured filters
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	query := db.Order("created_at desc")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	for i := range products {
		attachProductImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id - fetches a single catalog entry
func GetProduct(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	attachProductImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// ProductRequest represents the request body for creating or updating a
// catalog entry
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageKey    *string `json:"image_key"`
	Category    string  `json:"category" binding:"required"`
	Flavors     string  `json:"flavors"`
	Featured    bool    `json:"featured"`
}

// CreateProduct handles POST /api/v1/products - adds a catalog entry
func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageKey:    req.ImageKey,
		Category:    req.Category,
		Flavors:     req.Flavors,
		Featured:    req.Featured,
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - edits a catalog entry.
// Existing orders hold their own item snapshots, so this never rewrites
// history.
func UpdateProduct(c *gin.Context) {
	var req ProductRequest
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
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.Flavors = req.Flavors
	product.Featured = req.Featured
	if req.ImageKey != nil {
		product.ImageKey = req.ImageKey
	}

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id - removes a catalog entry
func DeleteProduct(c *gin.Context) {
	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// attachProductImageURL fills the computed presigned URL for a product image,
// when an image service is configured
func attachProductImageURL(product *models.Product) {
	imageService := services.GetImageService()
	if imageService == nil || product.ImageKey == nil {
		return
	}
	if url, err := imageService.GetImageURL(*product.ImageKey); err == nil && url != "" {
		product.ImageURL = &url
	}
}

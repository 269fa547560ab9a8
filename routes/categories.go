package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// RegisterCategoryRoutes registers the public service category catalog
func RegisterCategoryRoutes(router *gin.RouterGroup) {
	router.GET("", listCategories)
	router.GET("/:id", getCategory)
}

// listCategories returns the active service categories
func listCategories(c *gin.Context) {
	var categories []models.ServiceCategory
	if err := database.DB.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		log.Printf("❌ Failed to fetch categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories, "total": len(categories)})
}

// getCategory returns a single category by id
func getCategory(c *gin.Context) {
	var category models.ServiceCategory
	if err := database.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

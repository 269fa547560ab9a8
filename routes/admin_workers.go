package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// RegisterAdminWorkerRoutes registers worker review endpoints for the
// admin panel. The group is expected to carry AdminAuthMiddleware.
func RegisterAdminWorkerRoutes(router *gin.RouterGroup) {
	router.GET("/workers", getAllWorkers)
	router.GET("/workers/:id", getWorkerByID)
	router.PATCH("/workers/:id/verify", setWorkerVerification)
}

// getAllWorkers lists worker details rows, optionally filtered by
// verification state or category
func getAllWorkers(c *gin.Context) {
	query := database.DB.Model(&models.WorkerDetails{}).Preload("User").Preload("Category")

	if verified := c.Query("verified"); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var workers []models.WorkerDetails
	if err := query.Order("created_at DESC").Limit(200).Find(&workers).Error; err != nil {
		log.Printf("❌ Failed to fetch workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": workers, "total": len(workers)})
}

// getWorkerByID returns a worker details row with its user and category
func getWorkerByID(c *gin.Context) {
	var details models.WorkerDetails
	if err := database.DB.Preload("User").Preload("Category").First(&details, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Worker not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

// setWorkerVerification flips the KYC gate on a worker's details row.
// Verification is independent of account approval; a worker needs both
// before they can bid.
func setWorkerVerification(c *gin.Context) {
	workerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || workerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid worker id"})
		return
	}

	var req struct {
		IsVerified *bool `json:"is_verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "is_verified is required"})
		return
	}

	details, err := onboardingService().SetVerification(uint(workerID), *req.IsVerified)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

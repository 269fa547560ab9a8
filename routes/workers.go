package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// RegisterWorkerRoutes registers worker profile endpoints on the
// protected group
func RegisterWorkerRoutes(router *gin.RouterGroup) {
	router.GET("/me", getMyWorkerDetails)
	router.PUT("/me", updateMyWorkerDetails)
	router.GET("/biddable", listBiddableWorkers)
}

// getMyWorkerDetails returns the authenticated worker's own profile
func getMyWorkerDetails(c *gin.Context) {
	userID := c.GetUint("user_id")

	var details models.WorkerDetails
	if err := database.DB.Preload("Category").Where("user_id = ?", userID).First(&details).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Worker profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

// updateMyWorkerDetails updates the authenticated worker's profile.
// The verification flag is never touched here; changing documents or
// bank details does not reset KYC on its own.
func updateMyWorkerDetails(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.WorkerDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var details models.WorkerDetails
	if err := database.DB.Where("user_id = ?", userID).First(&details).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Worker profile not found"})
		return
	}

	var category models.ServiceCategory
	if err := database.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown service category"})
		return
	}

	details.CategoryID = req.CategoryID
	details.SubService = req.SubService
	details.ExperienceYears = req.ExperienceYears
	details.Experience = req.Experience
	details.BankName = req.BankName
	details.BankAccountNumber = req.BankAccountNumber
	details.BankAccountHolder = req.BankAccountHolder

	if err := database.DB.Save(&details).Error; err != nil {
		log.Printf("❌ Failed to update worker details for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

// listBiddableWorkers lists workers that pass both onboarding gates,
// optionally filtered by category. This is what customers browse when
// choosing whom to invite.
func listBiddableWorkers(c *gin.Context) {
	query := database.DB.Model(&models.WorkerDetails{}).
		Joins("JOIN users ON users.id = worker_details.user_id").
		Where("users.role = ? AND users.is_active = ? AND worker_details.is_verified = ?",
			models.RoleWorker, true, true).
		Preload("User").Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("worker_details.category_id = ?", categoryID)
	}

	var workers []models.WorkerDetails
	if err := query.Order("worker_details.rating DESC").Limit(100).Find(&workers).Error; err != nil {
		log.Printf("❌ Failed to fetch biddable workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": workers, "total": len(workers)})
}

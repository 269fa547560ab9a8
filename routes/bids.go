package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// RegisterBidRoutes registers bid endpoints on the protected group
func RegisterBidRoutes(router *gin.RouterGroup) {
	router.POST("", submitBid)
	router.GET("", listWorkerBids)
	router.POST("/:id/withdraw", withdrawBid)
}

// submitBid places a bid on an open job for the authenticated worker.
// Eligibility (approved account + verified KYC) is enforced inside the
// service transaction, not here.
func submitBid(c *gin.Context) {
	userID := c.GetUint("user_id")

	if models.UserRole(c.GetString("user_role")) != models.RoleWorker {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only workers can submit bids"})
		return
	}

	var req models.BidCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	bid, err := awardService().SubmitBid(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": bid})
}

// listWorkerBids returns bids for a worker. Workers see their own;
// admins may pass any worker_id. The worker_id parameter is required.
func listWorkerBids(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	workerParam := c.Query("worker_id")
	if workerParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "worker_id query parameter is required"})
		return
	}
	workerID, err := strconv.Atoi(workerParam)
	if err != nil || workerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid worker_id"})
		return
	}

	if role == models.RoleWorker && uint(workerID) != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Workers can only list their own bids"})
		return
	}

	query := database.DB.Where("worker_id = ?", workerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bids []models.Bid
	if err := query.Order("created_at DESC").Limit(100).Find(&bids).Error; err != nil {
		log.Printf("❌ Failed to fetch bids for worker %d: %v", workerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch bids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bids, "total": len(bids)})
}

// withdrawBid lets a worker retract their own pending bid
func withdrawBid(c *gin.Context) {
	userID := c.GetUint("user_id")

	bidID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bidID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid bid id"})
		return
	}

	bid, err := awardService().WithdrawBid(uint(bidID), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bid})
}

package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
	ws "servicehub-server/websocket"
)

// jobHub receives award/broadcast events for connected workers. Set
// from main before the router starts serving.
var jobHub *ws.Hub

// SetJobHub wires the WebSocket hub used for job broadcasts
func SetJobHub(hub *ws.Hub) {
	jobHub = hub
}

func awardService() *services.AwardService {
	return services.NewAwardService(database.NewStore(database.DB))
}

// RegisterJobRoutes registers job endpoints on the protected group
func RegisterJobRoutes(router *gin.RouterGroup) {
	router.POST("", middlewareRequireCustomer(), postJob)
	router.GET("", listJobs)
	router.GET("/:id", getJob)
	router.GET("/:id/bids", listBidsForJob)
	router.POST("/:id/select-bid/:bidId", awardBid)
	router.POST("/:id/cancel", cancelJob)
	router.POST("/:id/complete", completeJob)
	router.DELETE("/:id", deleteJob)
}

// postJob creates a new open job for the authenticated customer
func postJob(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.JobCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	job, err := awardService().PostJob(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Let connected workers know a new job is open for bidding.
	if jobHub != nil {
		jobHub.BroadcastNewJob(job)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": job})
}

// listJobs returns jobs filtered by customer_id and/or status.
// Customers only ever see their own jobs; admins see everything.
func listJobs(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	query := database.DB.Model(&models.Job{}).Preload("Category")

	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := strconv.Atoi(customerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid customer_id"})
			return
		}
		query = query.Where("customer_id = ?", id)
	}
	if role == models.RoleCustomer {
		query = query.Where("customer_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Limit(100).Find(&jobs).Error; err != nil {
		log.Printf("❌ Failed to fetch jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": jobs, "total": len(jobs)})
}

// getJob returns a single job with its category and customer
func getJob(c *gin.Context) {
	var job models.Job
	if err := database.DB.Preload("Category").Preload("Customer").First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

// listBidsForJob returns all bids on a job, visible to the job owner
// and admins
func listBidsForJob(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	var job models.Job
	if err := database.DB.First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
		return
	}
	if role == models.RoleCustomer && job.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not your job"})
		return
	}

	var bids []models.Bid
	if err := database.DB.Where("job_id = ?", job.ID).Order("amount ASC").Find(&bids).Error; err != nil {
		log.Printf("❌ Failed to fetch bids for job %d: %v", job.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch bids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bids, "total": len(bids)})
}

// awardBid commits the job to the chosen bid; every sibling bid is
// rejected in the same transaction
func awardBid(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil || jobID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid job id"})
		return
	}
	bidID, err := strconv.Atoi(c.Param("bidId"))
	if err != nil || bidID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid bid id"})
		return
	}

	// Only the posting customer or an admin may award.
	if role == models.RoleCustomer {
		var job models.Job
		if err := database.DB.First(&job, jobID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
			return
		}
		if job.CustomerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not your job"})
			return
		}
	} else if role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only the customer or an admin can award a bid"})
		return
	}

	result, err := awardService().AwardBid(uint(jobID), uint(bidID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if jobHub != nil {
		jobHub.NotifyAward(result.Job, result.SelectedBid, result.RejectedWorkers)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"job":          result.Job,
			"selected_bid": result.SelectedBid,
		},
	})
}

// cancelJob cancels a job from any non-terminal state
func cancelJob(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil || jobID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid job id"})
		return
	}

	if role == models.RoleCustomer {
		var job models.Job
		if err := database.DB.First(&job, jobID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
			return
		}
		if job.CustomerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not your job"})
			return
		}
	}

	job, err := awardService().CancelJob(uint(jobID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

// completeJob marks an assigned job as completed. Allowed for the
// customer who posted it, the assigned worker, or an admin.
func completeJob(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil || jobID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid job id"})
		return
	}

	if role != models.RoleAdmin {
		var job models.Job
		if err := database.DB.First(&job, jobID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
			return
		}
		isOwner := job.CustomerID == userID
		isAssignedWorker := job.SelectedWorkerID != nil && *job.SelectedWorkerID == userID
		if !isOwner && !isAssignedWorker {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not a participant in this job"})
			return
		}
	}

	job, err := awardService().CompleteJob(uint(jobID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": job})
}

// deleteJob soft-deletes a job. Admin cleanup only; customers cancel
// instead so bid history stays visible.
func deleteJob(c *gin.Context) {
	if models.UserRole(c.GetString("user_role")) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only admins can delete jobs"})
		return
	}

	var job models.Job
	if err := database.DB.First(&job, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Job not found"})
		return
	}

	if err := database.DB.Delete(&job).Error; err != nil {
		log.Printf("❌ Failed to delete job %d: %v", job.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete job"})
		return
	}

	log.Printf("🗑️ Job %d (%s) deleted by admin %d", job.ID, job.Reference, c.GetUint("user_id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Job deleted"})
}

// middlewareRequireCustomer limits job posting to customer accounts
func middlewareRequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if models.UserRole(c.GetString("user_role")) != models.RoleCustomer {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only customers can post jobs"})
			c.Abort()
			return
		}
		c.Next()
	}
}

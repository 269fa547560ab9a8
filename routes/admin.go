package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterAdminAuthRoutes registers the password login used by admin
// accounts. Admins are the only role with a password; customers and
// workers log in via OTP.
func RegisterAdminAuthRoutes(router *gin.RouterGroup) {
	router.POST("/login", adminLogin)
}

// RegisterAdminRoutes registers user management endpoints. The group is
// expected to carry AdminAuthMiddleware.
func RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users", getAllUsers)
	router.GET("/users/:id", getUserByID)
	router.PATCH("/users/:id/status", setUserStatus)
	router.DELETE("/users/:id", deleteUser)
}

func onboardingService() *services.OnboardingService {
	return services.NewOnboardingService(database.NewStore(database.DB))
}

// adminLogin authenticates an admin with phone number and password
func adminLogin(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("phone_number = ? AND role = ?", req.PhoneNumber, models.RoleAdmin).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	jwtService := services.NewJWTService(database.DB)
	if user.PasswordHash == "" || !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Printf("🚫 Failed admin login attempt for %s from %s", req.PhoneNumber, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Account is disabled"})
		return
	}

	tokenPair, err := jwtService.GenerateTokenPair(&user, c.GetHeader("X-Device-ID"), c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		log.Printf("❌ Token generation failed for admin %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate tokens"})
		return
	}

	log.Printf("✅ Admin %d logged in", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":        user.ID,
				"full_name": user.FullName,
				"role":      user.Role,
			},
			"tokens": tokenPair,
		},
	})
}

// getAllUsers lists users, optionally filtered by role or activation
func getAllUsers(c *gin.Context) {
	query := database.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(200).Find(&users).Error; err != nil {
		log.Printf("❌ Failed to fetch users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users, "total": len(users)})
}

// getUserByID returns a single user with worker details when present
func getUserByID(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	resp := gin.H{"user": user}
	if user.IsWorker() {
		var details models.WorkerDetails
		if err := database.DB.Preload("Category").Where("user_id = ?", user.ID).First(&details).Error; err == nil {
			resp["worker_details"] = details
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// setUserStatus flips the account approval gate on a user
func setUserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "is_active is required"})
		return
	}

	user, err := onboardingService().SetApproval(uint(userID), *req.IsActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// deleteUser soft-deletes a user account
func deleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
		return
	}

	adminID := c.GetUint("user_id")
	if uint(userID) == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cannot delete your own account"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		log.Printf("❌ Failed to delete user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete user"})
		return
	}

	log.Printf("🗑️ User %d deleted by admin %d", userID, adminID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

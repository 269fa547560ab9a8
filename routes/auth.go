package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/middleware"
	"servicehub-server/models"
	"servicehub-server/services"
	"servicehub-server/utils"
)

// RegisterAuthRoutes registers registration and OTP login endpoints.
// Login is phone + one-time code; codes live in Redis with a TTL so no
// login state is held in process memory.
func RegisterAuthRoutes(router *gin.RouterGroup) {
	router.POST("/register", registerCustomer)
	router.POST("/register/worker", registerWorker)
	router.POST("/request-otp", requestOTP)
	router.POST("/verify-otp", verifyOTP)
	router.POST("/refresh", refreshToken)
	router.POST("/logout", logout)
}

// registerCustomer creates an inactive customer account
func registerCustomer(c *gin.Context) {
	var req struct {
		FullName    string `json:"full_name" binding:"required,min=2,max=100"`
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	req.FullName = middleware.SanitizeInput(req.FullName)
	req.PhoneNumber = utils.FormatPhoneNumber(req.PhoneNumber)
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid phone number"})
		return
	}

	var existing models.User
	if err := database.DB.Where("phone_number = ?", req.PhoneNumber).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "An account with this phone number already exists"})
		return
	}

	user := models.User{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleCustomer,
		IsActive:    false,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("❌ Customer registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create account"})
		return
	}

	log.Printf("✅ Customer %d registered, awaiting approval", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created and awaiting approval",
		"data": gin.H{
			"id":           user.ID,
			"full_name":    user.FullName,
			"phone_number": user.PhoneNumber,
			"role":         user.Role,
			"is_active":    user.IsActive,
		},
	})
}

// registerWorker creates an inactive worker account plus its unverified
// details row. The worker cannot log in or bid until an admin approves
// the account and verifies the documents.
func registerWorker(c *gin.Context) {
	var req services.RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	req.FullName = middleware.SanitizeInput(req.FullName)
	req.PhoneNumber = utils.FormatPhoneNumber(req.PhoneNumber)
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid phone number"})
		return
	}

	var category models.ServiceCategory
	if err := database.DB.First(&category, req.Details.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown service category"})
		return
	}

	onboarding := services.NewOnboardingService(database.NewStore(database.DB))
	user, err := onboarding.RegisterWorker(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Worker account created and awaiting approval and KYC verification",
		"data": gin.H{
			"id":           user.ID,
			"full_name":    user.FullName,
			"phone_number": user.PhoneNumber,
			"role":         user.Role,
			"is_active":    user.IsActive,
		},
	})
}

// requestOTP issues a one-time login code for an approved account
func requestOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	phone := utils.FormatPhoneNumber(req.PhoneNumber)

	var user models.User
	if err := database.DB.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No account for this phone number"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Account is awaiting approval"})
		return
	}

	if _, err := services.NewOTPService().Issue(c.Request.Context(), phone); err != nil {
		log.Printf("❌ Failed to issue OTP for %s: %v", phone, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

// verifyOTP exchanges a valid one-time code for a token pair
func verifyOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		Code        string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	phone := utils.FormatPhoneNumber(req.PhoneNumber)

	var user models.User
	if err := database.DB.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No account for this phone number"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Account is awaiting approval"})
		return
	}

	ok, err := services.NewOTPService().Verify(c.Request.Context(), phone, strings.TrimSpace(req.Code))
	if err != nil {
		log.Printf("❌ OTP verification failed for %s: %v", phone, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify code"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired code"})
		return
	}

	jwtService := services.NewJWTService(database.DB)
	tokenPair, err := jwtService.GenerateTokenPair(&user, c.GetHeader("X-Device-ID"), c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		log.Printf("❌ Token generation failed for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate tokens"})
		return
	}

	log.Printf("✅ User %d logged in via OTP", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":           user.ID,
				"full_name":    user.FullName,
				"phone_number": user.PhoneNumber,
				"role":         user.Role,
			},
			"tokens": tokenPair,
		},
	})
}

// refreshToken exchanges a refresh token for a new access token
func refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	tokenPair, err := services.NewJWTService(database.DB).RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"tokens": tokenPair}})
}

// logout revokes the presented refresh token
func logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := services.NewJWTService(database.DB).RevokeRefreshToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// validateDocumentFile validates mimetype and size (<= 5MB)
func validateDocumentFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		return true
	default:
		return false
	}
}

// RegisterWorkerDocumentRoutes adds the KYC document upload endpoint
// under the protected group. Uploading new documents does not touch the
// verification flag; an admin reviews and verifies separately.
func RegisterWorkerDocumentRoutes(rg *gin.RouterGroup) {
	rg.POST("/workers/documents", uploadWorkerDocuments)
}

func uploadWorkerDocuments(c *gin.Context) {
	userID := c.GetUint("user_id")

	if models.UserRole(c.GetString("user_role")) != models.RoleWorker {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only workers can upload documents"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
		return
	}

	idProofHeader, _ := c.FormFile("id_proof")
	policeHeader, _ := c.FormFile("police_verification")
	skillHeader, _ := c.FormFile("skill_certificate")

	if idProofHeader == nil && policeHeader == nil && skillHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No files provided"})
		return
	}

	for name, header := range map[string]*multipart.FileHeader{
		"id_proof":            idProofHeader,
		"police_verification": policeHeader,
		"skill_certificate":   skillHeader,
	} {
		if header != nil && !validateDocumentFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid file for " + name})
			return
		}
	}

	var details models.WorkerDetails
	if err := database.DB.Where("user_id = ?", userID).First(&details).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Worker profile not found"})
		return
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Document storage not configured"})
		return
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Document storage unavailable"})
		return
	}

	ctx := context.Background()
	data := gin.H{}

	upload := func(header *multipart.FileHeader, folder string) (string, error) {
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		ow := true
		uf := true
		up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:         folder,
			PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
			Overwrite:      &ow,
			UniqueFilename: &uf,
		})
		if err != nil {
			return "", err
		}
		return up.SecureURL, nil
	}

	base := "kyc/" + strconv.Itoa(int(userID))

	if idProofHeader != nil {
		url, err := upload(idProofHeader, base+"/id_proof")
		if err != nil {
			log.Printf("❌ ID proof upload failed for worker %d: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "ID proof upload failed"})
			return
		}
		details.IDProofURL = &url
		data["id_proof_url"] = url
	}
	if policeHeader != nil {
		url, err := upload(policeHeader, base+"/police_verification")
		if err != nil {
			log.Printf("❌ Police verification upload failed for worker %d: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Police verification upload failed"})
			return
		}
		details.PoliceVerificationURL = &url
		data["police_verification_url"] = url
	}
	if skillHeader != nil {
		url, err := upload(skillHeader, base+"/skill_certificate")
		if err != nil {
			log.Printf("❌ Skill certificate upload failed for worker %d: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Skill certificate upload failed"})
			return
		}
		details.SkillCertificateURL = &url
		data["skill_certificate_url"] = url
	}

	if err := database.DB.Save(&details).Error; err != nil {
		log.Printf("❌ Failed to save document URLs for worker %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save documents"})
		return
	}

	log.Printf("✅ Worker %d uploaded KYC documents", userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/services"
)

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Unrecognized errors become a generic 500 without leaking
// internals to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}

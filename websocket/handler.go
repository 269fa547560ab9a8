package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/models"
)

// HandleConnection is the gin handler for the authenticated WebSocket
// endpoint. AuthMiddleware must run first so user_id and user_role are
// set on the context.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		userType := "customer"
		if models.UserRole(c.GetString("user_role")) == models.RoleWorker {
			userType = "worker"
		}

		log.Printf("🔌 WebSocket connection from user %d (%s)", userID, userType)
		ServeWebSocket(hub, c.Writer, c.Request, userID, userType)
	}
}

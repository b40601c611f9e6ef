package routes

import (
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes streams the caller's dispatched events. group must already be authenticated.
func RegisterWebSocketRoutes(group *gin.RouterGroup, wsService services.WebSocketServiceInterface) {
	group.GET("/ws", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		wsService.HandleConnection(c.Writer, c.Request, userID)
	})
}

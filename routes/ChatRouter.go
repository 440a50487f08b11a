package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/chat"
)

func ChatRouter(authed *gin.RouterGroup, hub *chat.Server) {
	authed.GET("/ws", hub.HandleWS)
}

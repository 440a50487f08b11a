package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func MessageRouter(authed *gin.RouterGroup, messages *controllers.MessageController) {
	authed.GET("/messages/:user_id", messages.GetConversation)
	authed.POST("/messages/:user_id", messages.SendMessage)
}

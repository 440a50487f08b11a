package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func ConnectionRouter(authed *gin.RouterGroup, conns *controllers.ConnectionController) {
	authed.POST("/connections/request/:user_id", conns.SendRequest)
	authed.POST("/connections/accept/:user_id", conns.AcceptRequest)
	authed.POST("/connections/decline/:user_id", conns.DeclineRequest)
	authed.POST("/connections/cancel/:user_id", conns.CancelRequest)
	authed.DELETE("/connections/:user_id", conns.RemoveConnection)
	authed.GET("/connections", conns.ListConnections)
	authed.GET("/connections/pending", conns.ListPending)
	authed.GET("/connections/sent", conns.ListSent)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func HomeRouter(authed *gin.RouterGroup, auth *controllers.AuthController) {
	authed.GET("/validate", auth.Validate)
}

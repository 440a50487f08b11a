package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func AuthRouter(router *gin.Engine, auth *controllers.AuthController) {
	router.POST("/signup", auth.SignUp)
	router.POST("/login", auth.Login)
	router.POST("/logout", auth.Logout)
}

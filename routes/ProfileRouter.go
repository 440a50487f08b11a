package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func ProfileRouter(authed *gin.RouterGroup, profile *controllers.ProfileController) {
	authed.GET("/profile", profile.GetProfile)
	authed.PUT("/profile", profile.UpdateProfile)
	authed.POST("/profile/password", profile.ChangePassword)
	authed.GET("/profile/:user_id", profile.GetUserProfile)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func DirectoryRouter(authed *gin.RouterGroup, directory *controllers.DirectoryController) {
	authed.GET("/directory", directory.ListCandidates)
}

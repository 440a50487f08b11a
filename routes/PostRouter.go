package routes

import (
	"github.com/gin-gonic/gin"

	"campusconnect/controllers"
)

func PostRouter(authed *gin.RouterGroup, posts *controllers.PostController) {
	authed.POST("/community/posts", posts.CreatePost)
	authed.GET("/community/feed", posts.GetFeed)
}

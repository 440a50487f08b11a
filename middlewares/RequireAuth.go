package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"campusconnect/helper"
	"campusconnect/models"
)

const UserKey = "user"

// RequireAuth verifies the session cookie, resolves the user behind it, and
// stores the document in the request context for the handlers downstream.
// Handlers never consult ambient session state.
func RequireAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("token")
		if err != nil || tokenString == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		email, err := helper.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := helper.GetUserByEmail(db, email)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

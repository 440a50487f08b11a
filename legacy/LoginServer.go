// Package legacy carries the standalone credential-check endpoint the first
// iteration of the product shipped alongside the real auth flow. Nothing in
// the application calls it; it is kept on its own port for the one client
// integration that still expects it.
package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler matches the request body against a single fixed credential pair.
func Handler(email, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentials
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password."})
			return
		}
		if body.Email == email && body.Password == password {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful!"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password."})
	}
}

// NewRouter builds the stub server's router.
func NewRouter(email, password string) *gin.Engine {
	router := gin.New()
	router.POST("/login", Handler(email, password))
	return router
}

// Run serves the stub on the given port, blocking until the listener fails.
func Run(port, email, password string) error {
	return NewRouter(email, password).Run(":" + port)
}

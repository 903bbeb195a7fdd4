package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates a route to users carrying the Admin role claim.
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "Admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		c.Abort()
		return
	}
	c.Next()
}

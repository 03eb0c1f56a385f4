package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requesterID pulls the authenticated user ID set by the auth
// middleware. A missing value means the route was wired without auth.
func requesterID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return "", false
	}
	return id, true
}

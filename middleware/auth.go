package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"reflink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// JWTAuthMiddleware validates the Bearer token, cross-checks its hash
// against the Redis auth cache when available, and stores the caller's
// userID in the request context. Authentication itself is a black-box
// credential service; this middleware only consumes its tokens.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		// Cross-check against the cached hash of the user's active token.
		// A cache miss falls through to the signature check alone.
		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			cachedHash, err := authCache.Get(ctx, utils.AuthCachePrefix+userID).Result()
			cancel()
			switch {
			case err == nil:
				if cachedHash != utils.HashToken(tokenString) {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token revoked"})
					return
				}
			case err != redis.Nil:
				log.Printf("WARNING: auth cache lookup failed: %v", err)
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets userID when a valid token is present but
// never rejects the request.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if userID, err := utils.ExtractIDFromToken(tokenString); err == nil && userID != "" {
				c.Set("userID", userID)
			}
		}
		c.Next()
	}
}

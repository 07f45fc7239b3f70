// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"courtbook/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware resolves the bearer token into an actor. Identity is
// issued externally, so the token is the only thing consulted.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actor, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(utils.ContextActorKey, actor)
		c.Set(utils.ContextUserID, actor.UserID)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"courtbook/models"
	"courtbook/utils"

	"github.com/gin-gonic/gin"
)

// RequireStaff rejects callers whose token lacks the staff claim. It must run
// after JWTAuthMiddleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(utils.ContextActorKey)
		actor, ok := v.(models.Actor)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		if !actor.Staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/internal/shared/response"
)

// AdminMiddleware checks the role set by AuthMiddleware.
// Va montato sempre DOPO AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(CtxRole)
		if !exists {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok || shared.Role(role) != shared.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

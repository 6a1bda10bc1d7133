package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/internal/shared/response"
	"newsletter-italiane-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// AuthMiddleware verifica il Bearer token e mette identità e ruolo nel
// gin context. Un token assente o invalido termina la richiesta con 401.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// ActorFromContext ricostruisce l'Actor dal gin context popolato da
// AuthMiddleware. ok=false se il middleware non è passato di qui.
func ActorFromContext(c *gin.Context) (shared.Actor, bool) {
	userIDVal, exists := c.Get(CtxUserID)
	if !exists {
		return shared.Actor{}, false
	}

	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return shared.Actor{}, false
	}

	return shared.Actor{
		ID:    userID,
		Email: c.GetString(CtxEmail),
		Role:  shared.Role(c.GetString(CtxRole)),
	}, true
}

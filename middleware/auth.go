package middleware

import (
	"net/http"
	"strings"

	"salonbook/models"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorContextKey = "actor"

// AuthMiddleware validates the bearer token and stores the resulting actor in
// the request context. Anonymous requests are rejected.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization token"})
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an actor when a valid token is present but
// lets anonymous requests through. Browse and hold endpoints use it so guests
// can reserve slots before signing in.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromRequest(c); ok {
			c.Set(actorContextKey, actor)
		}
		c.Next()
	}
}

// RequireRoles aborts unless the authenticated actor carries one of the given
// roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		zap.L().Warn("role check failed",
			zap.String("actorId", actor.ID), zap.String("role", actor.Role))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// ActorFromContext returns the actor stored by the auth middleware. Requests
// that skipped authentication get a zero-value customer actor.
func ActorFromContext(c *gin.Context) models.Actor {
	if v, exists := c.Get(actorContextKey); exists {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{Role: models.RecipientCustomer}
}

func actorFromRequest(c *gin.Context) (models.Actor, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return models.Actor{}, false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	id, role, err := utils.ActorFromToken(token)
	if err != nil {
		return models.Actor{}, false
	}
	return models.Actor{ID: id, Role: role}, true
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/policy"
	"salon-backend/pkg/utils"
)

const actorKey = "actor"

// AuthMiddleware requires a valid "Bearer <token>" header and stores the
// caller in the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Authentication token is missing.", nil)
			c.Abort()
			return
		}

		// 2. "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Authorization header must be 'Bearer <token>'.", nil)
			c.Abort()
			return
		}

		// 3. signature, expiry, claims
		actor, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid or expired token.", nil)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// CurrentActor returns the caller set by AuthMiddleware.
func CurrentActor(c *gin.Context) (policy.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return policy.Actor{}, false
	}
	actor, ok := v.(policy.Actor)
	return actor, ok
}

// AdminOnly guards the admin route group. The operations re-check the role
// themselves; this just fails fast.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Authentication required.", nil)
			c.Abort()
			return
		}
		if actor.Role != policy.RoleAdmin {
			utils.APIResponse(c, http.StatusForbidden, false, "Access denied: admins only.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

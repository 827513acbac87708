package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the given roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if role.(string) == string(r) {
				c.Next()
				return
			}
		}

		response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly requires the admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/auth"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user"
)

// RequireAdmin ensures the authenticated user holds the admin role.
// It MUST be used after auth.AuthRequired middleware. The token's role
// claim screens requests without a store round-trip; the store remains
// authoritative, so demotions take effect before the token expires and
// promotions require a fresh login.
func RequireAdmin(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if auth.GetUserRole(c) != string(user.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !u.IsActive || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}

// internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

// AdminLookup confirms that a token subject is still an enabled admin.
type AdminLookup interface {
	ActiveAdmin(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
}

// AdminRequired guards privileged routes. Every failure gets the same
// generic 403 so callers learn nothing about why.
func AdminRequired(lookup AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok || claims.Role != utils.RoleAdmin {
			deny(c)
			return
		}

		adminID, err := uuid.Parse(claims.AdminID)
		if err != nil {
			deny(c)
			return
		}

		if lookup != nil {
			if _, err := lookup.ActiveAdmin(c.Request.Context(), adminID); err != nil {
				deny(c)
				return
			}
		}

		// Set admin info in context
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func deny(c *gin.Context) {
	utils.ForbiddenResponse(c, "")
	c.Abort()
}

package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
				"code":  "Unauthorized",
			})
			return
		}

		claims, ok := parseHeader(jwtManager, header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  "Unauthorized",
			})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth stores the caller identity when a valid token is present and
// lets anonymous requests through. A malformed or expired token is rejected.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		claims, ok := parseHeader(jwtManager, header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  "Unauthorized",
			})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin ensures the authenticated user holds the admin role.
// It MUST be used after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "Unauthorized"})
			return
		}
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required", "code": "Forbidden"})
			return
		}
		c.Next()
	}
}

func parseHeader(jwtManager *JWTManager, header string) (*Claims, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, false
	}
	claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *Claims) {
	role := claims.Role
	if role == "" {
		role = RoleUser
	}
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, role)
}

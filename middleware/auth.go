package middleware

import (
	"net/http"
	"os"
	"strings"

	"conference-management-api/config"
	"conference-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the token payload issued at login and trusted by every
// protected route.
type AccessClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}

// AuthMiddleware validates the bearer token and loads the caller identity
// into the request context. Tokens of deleted accounts are rejected even
// when still inside their validity window.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || raw == "" {
			abortUnauthorized(c, "Bearer token required")
			return
		}

		claims := &AccessClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).
			First(&user).Error; err != nil {
			abortUnauthorized(c, "Account no longer active")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roleID", claims.RoleID)
		c.Next()
	}
}

// RequireRole gates a route to the given role IDs. Runs after
// AuthMiddleware, which put the caller's role into the context.
func RequireRole(roleIDs ...int) gin.HandlerFunc {
	allowed := make(map[int]bool, len(roleIDs))
	for _, roleID := range roleIDs {
		allowed[roleID] = true
	}
	return func(c *gin.Context) {
		value, exists := c.Get("roleID")
		roleID, ok := value.(int)
		if !exists || !ok || !allowed[roleID] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

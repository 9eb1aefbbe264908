// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
)

// DefaultView is where a terminal lands when its role does not cover a
// protected view
const DefaultView = "/pos"

// AuthMiddleware validates the terminal session token and resolves the
// stored session. A token whose session no longer exists (logged out or
// expired upstream) is rejected the same way as an invalid token.
func AuthMiddleware(jwtManager *auth.JWTManager, sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Validate session token
		claims, err := jwtManager.ValidateSessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Resolve the stored session
		sess, err := sessions.Resolve(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Session expired",
				"logged_out": true,
			})
			c.Abort()
			return
		}

		// Store session information in context
		c.Set("session", sess)
		c.Set("session_id", sess.ID)
		c.Set("user_name", sess.User.Name)
		c.Set("user_role", sess.User.Role)

		c.Next()
	}
}

// RequireRoles gates a route group behind a role allow-list. A user
// lacking the role is pointed back at the default cashier view instead
// of a bare access-denied response.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role.(string) == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Insufficient role",
			"redirect": DefaultView,
		})
		c.Abort()
	}
}

// GetSessionFromContext extracts the resolved session from gin context
func GetSessionFromContext(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get("session")
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

// GetSessionIDFromContext extracts the session id from gin context
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}

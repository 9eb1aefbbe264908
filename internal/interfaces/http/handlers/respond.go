// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
)

// respondBackendError maps an upstream failure onto the terminal
// response. An unauthorized answer from the upstream is the universal
// session-invalid signal: the stored session is destroyed and the
// terminal is told to route back to login.
func respondBackendError(c *gin.Context, sessions *session.Service, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		if sessionID, ok := middleware.GetSessionIDFromContext(c); ok {
			_ = sessions.Destroy(c.Request.Context(), sessionID)
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Session expired",
			"logged_out": true,
		})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "Something went wrong"
		}
		c.JSON(apiErr.StatusCode, gin.H{
			"error": message,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Upstream request failed",
	})
}

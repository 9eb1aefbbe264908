// internal/interfaces/http/handlers/proxy.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
)

// proxyHandler forwards management requests to the upstream API under the
// session's bearer token, passing payloads through untouched
type proxyHandler struct {
	backend  *backend.Client
	sessions *session.Service
}

func (h *proxyHandler) get(c *gin.Context, endpoint, message string) {
	sess, _ := middleware.GetSessionFromContext(c)

	data, err := h.backend.Get(c.Request.Context(), sess.Token, endpoint, c.Request.URL.Query())
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

func (h *proxyHandler) send(c *gin.Context, status int, message string, call func(token string, body json.RawMessage) (json.RawMessage, error)) {
	var body json.RawMessage
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Failed to read request body",
			})
			return
		}
		if len(raw) > 0 {
			if !json.Valid(raw) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid request data",
				})
				return
			}
			body = raw
		}
	}

	sess, _ := middleware.GetSessionFromContext(c)

	data, err := call(sess.Token, body)
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

// rawOrNil keeps bodyless requests from serializing as JSON null
func rawOrNil(body json.RawMessage) interface{} {
	if len(body) == 0 {
		return nil
	}
	return body
}

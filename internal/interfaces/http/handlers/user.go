// internal/interfaces/http/handlers/user.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
)

// UserHandler proxies user administration to the upstream API
type UserHandler struct {
	proxyHandler
}

// NewUserHandler creates a new user handler
func NewUserHandler(client *backend.Client, sessions *session.Service) *UserHandler {
	return &UserHandler{proxyHandler{backend: client, sessions: sessions}}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	h.get(c, "/users", "Users retrieved successfully")
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	h.get(c, "/users/"+c.Param("id"), "User retrieved successfully")
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	h.send(c, http.StatusCreated, "User created successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Post(c.Request.Context(), token, "/users", rawOrNil(body))
	})
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	h.send(c, http.StatusOK, "User updated successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Put(c.Request.Context(), token, "/users/"+c.Param("id"), rawOrNil(body))
	})
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	h.send(c, http.StatusOK, "User deleted successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Delete(c.Request.Context(), token, "/users/"+c.Param("id"))
	})
}

// ToggleActive handles POST /users/:id/toggle-active
func (h *UserHandler) ToggleActive(c *gin.Context) {
	h.send(c, http.StatusOK, "User status updated successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Post(c.Request.Context(), token, "/users/"+c.Param("id")+"/toggle-active", rawOrNil(body))
	})
}

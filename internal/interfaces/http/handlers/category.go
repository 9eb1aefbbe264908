// internal/interfaces/http/handlers/category.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
)

// CategoryHandler proxies category management to the upstream API
type CategoryHandler struct {
	proxyHandler
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(client *backend.Client, sessions *session.Service) *CategoryHandler {
	return &CategoryHandler{proxyHandler{backend: client, sessions: sessions}}
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	h.get(c, "/categories", "Categories retrieved successfully")
}

// GetByID handles GET /categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	h.get(c, "/categories/"+c.Param("id"), "Category retrieved successfully")
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	h.send(c, http.StatusCreated, "Category created successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Post(c.Request.Context(), token, "/categories", rawOrNil(body))
	})
}

// Update handles PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	h.send(c, http.StatusOK, "Category updated successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Put(c.Request.Context(), token, "/categories/"+c.Param("id"), rawOrNil(body))
	})
}

// Delete handles DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	h.send(c, http.StatusOK, "Category deleted successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Delete(c.Request.Context(), token, "/categories/"+c.Param("id"))
	})
}

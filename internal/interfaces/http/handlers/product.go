// internal/interfaces/http/handlers/product.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
)

// ProductHandler proxies product management to the upstream API
type ProductHandler struct {
	proxyHandler
}

// NewProductHandler creates a new product handler
func NewProductHandler(client *backend.Client, sessions *session.Service) *ProductHandler {
	return &ProductHandler{proxyHandler{backend: client, sessions: sessions}}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	h.get(c, "/products", "Products retrieved successfully")
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	h.get(c, "/products/"+c.Param("id"), "Product retrieved successfully")
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	h.send(c, http.StatusCreated, "Product created successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Post(c.Request.Context(), token, "/products", rawOrNil(body))
	})
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	h.send(c, http.StatusOK, "Product updated successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Put(c.Request.Context(), token, "/products/"+c.Param("id"), rawOrNil(body))
	})
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	h.send(c, http.StatusOK, "Product deleted successfully", func(token string, body json.RawMessage) (json.RawMessage, error) {
		return h.backend.Delete(c.Request.Context(), token, "/products/"+c.Param("id"))
	})
}

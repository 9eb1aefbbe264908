// internal/interfaces/http/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
)

// DashboardHandler proxies the dashboard summary to the upstream API
type DashboardHandler struct {
	proxyHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(client *backend.Client, sessions *session.Service) *DashboardHandler {
	return &DashboardHandler{proxyHandler{backend: client, sessions: sessions}}
}

// Summary handles GET /dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	h.get(c, "/dashboard", "Dashboard retrieved successfully")
}

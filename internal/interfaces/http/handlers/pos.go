// internal/interfaces/http/handlers/pos.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/cart"
	"github.com/your-org/pos-terminal/internal/domain/catalog"
	"github.com/your-org/pos-terminal/internal/domain/notify"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
)

// POSHandler handles the cashier screen: catalog, cart and notifications
type POSHandler struct {
	catalog  *catalog.Service
	carts    *cart.Service
	notifier *notify.Service
	sessions *session.Service
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(catalogService *catalog.Service, carts *cart.Service, notifier *notify.Service, sessions *session.Service) *POSHandler {
	return &POSHandler{
		catalog:  catalogService,
		carts:    carts,
		notifier: notifier,
		sessions: sessions,
	}
}

// GetCatalog handles GET /pos/catalog
func (h *POSHandler) GetCatalog(c *gin.Context) {
	sess, _ := middleware.GetSessionFromContext(c)

	snap, err := h.catalog.Get(c.Request.Context(), sess.Token)
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID = uint(id)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog retrieved successfully",
		"data": gin.H{
			"products":   catalog.Addable(snap, c.Query("search"), categoryID),
			"categories": snap.Categories,
			"fetched_at": snap.FetchedAt,
		},
	})
}

// RefreshCatalog handles POST /pos/catalog/refresh
func (h *POSHandler) RefreshCatalog(c *gin.Context) {
	sess, _ := middleware.GetSessionFromContext(c)

	snap, err := h.catalog.Refresh(c.Request.Context(), sess.Token)
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog refreshed successfully",
		"data": gin.H{
			"products":   len(snap.Products),
			"categories": len(snap.Categories),
			"fetched_at": snap.FetchedAt,
		},
	})
}

// Barcode handles GET /pos/barcode - exact SKU/barcode lookup for scanners
func (h *POSHandler) Barcode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "code query parameter is required",
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)

	product, err := h.catalog.FindByBarcode(c.Request.Context(), sess.Token, code)
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product found",
		"data":    product,
	})
}

// GetCart handles GET /pos/cart
func (h *POSHandler) GetCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.carts.Snapshot(sessionID),
	})
}

// AddItemRequest represents an add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddItem handles POST /pos/cart/items
func (h *POSHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)
	sessionID := sess.ID

	snap, err := h.catalog.Get(c.Request.Context(), sess.Token)
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	product, found := findProduct(snap, req.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	if err := h.carts.AddItem(sessionID, product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"data":  h.carts.Snapshot(sessionID),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.carts.Snapshot(sessionID),
	})
}

// UpdateItemRequest adjusts a cart line quantity by a delta
type UpdateItemRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// UpdateItem handles PUT /pos/cart/items/:id
func (h *POSHandler) UpdateItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sessionID, _ := middleware.GetSessionIDFromContext(c)

	if err := h.carts.UpdateQuantity(sessionID, productID, *req.Delta); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cart.ErrLineNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
			"data":  h.carts.Snapshot(sessionID),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.carts.Snapshot(sessionID),
	})
}

// RemoveItem handles DELETE /pos/cart/items/:id
func (h *POSHandler) RemoveItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	sessionID, _ := middleware.GetSessionIDFromContext(c)
	h.carts.RemoveItem(sessionID, productID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.carts.Snapshot(sessionID),
	})
}

// ClearCart handles DELETE /pos/cart
func (h *POSHandler) ClearCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)
	h.carts.Clear(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// SetDiscountRequest sets the cart-level discount percentage
type SetDiscountRequest struct {
	Percent *int `json:"percent" binding:"required"`
}

// SetDiscount handles PUT /pos/cart/discount
func (h *POSHandler) SetDiscount(c *gin.Context) {
	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sessionID, _ := middleware.GetSessionIDFromContext(c)

	if err := h.carts.SetDiscountPercent(sessionID, *req.Percent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount updated successfully",
		"data":    h.carts.Snapshot(sessionID),
	})
}

// Notifications handles GET /pos/notifications - drains pending toasts
func (h *POSHandler) Notifications(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications retrieved successfully",
		"data":    h.notifier.Drain(sessionID),
	})
}

func parseProductID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func findProduct(snap *catalog.Snapshot, productID uint) (backend.Product, bool) {
	for i := range snap.Products {
		if snap.Products[i].ID == productID {
			return snap.Products[i], true
		}
	}
	return backend.Product{}, false
}

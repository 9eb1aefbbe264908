// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/domain/cart"
	"github.com/your-org/pos-terminal/internal/domain/checkout"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout submission and gateway outcome reports
type CheckoutHandler struct {
	checkout *checkout.Service
	sessions *session.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, sessions *session.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		sessions: sessions,
	}
}

// CheckoutRequest represents a checkout submission
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`
}

// Checkout handles POST /pos/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)

	result, err := h.checkout.Submit(c.Request.Context(), sess.ID, sess.Token, checkout.Request{
		Customer: cart.CustomerInfo{
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
		},
		Method: cart.PaymentMethod(req.PaymentMethod),
		Notes:  req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownMethod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown payment method",
			})
		case errors.Is(err, cart.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, checkout.ErrCheckoutInFlight):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A checkout is already in progress",
			})
		default:
			respondBackendError(c, h.sessions, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout submitted successfully",
		"data":    result,
	})
}

// GatewayResultRequest relays the hosted widget's outcome
type GatewayResultRequest struct {
	TransactionID uint   `json:"transaction_id"`
	Result        string `json:"result" binding:"required"`
	Message       string `json:"message"`
}

// GatewayResult handles POST /pos/checkout/gateway-result
func (h *CheckoutHandler) GatewayResult(c *gin.Context) {
	var req GatewayResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	outcome := checkout.Outcome(req.Result)
	if !outcome.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown gateway result",
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)

	resolution, err := h.checkout.Resolve(c.Request.Context(), sess.ID, sess.Token, checkout.OutcomeReport{
		TransactionID: req.TransactionID,
		Outcome:       outcome,
		Message:       req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoAttempt):
			c.JSON(http.StatusConflict, gin.H{
				"error": "No gateway payment in progress",
			})
		case errors.Is(err, checkout.ErrAttemptMismatch):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Gateway result does not match the pending payment",
			})
		default:
			respondBackendError(c, h.sessions, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gateway result processed successfully",
		"data":    resolution,
	})
}

// internal/interfaces/http/handlers/transaction.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal/internal/pkg/receipt"
)

// TransactionHandler proxies transaction history and reporting, and
// renders printable receipts locally
type TransactionHandler struct {
	proxyHandler
	receipts *receipt.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(client *backend.Client, sessions *session.Service, receipts *receipt.Service) *TransactionHandler {
	return &TransactionHandler{
		proxyHandler: proxyHandler{backend: client, sessions: sessions},
		receipts:     receipts,
	}
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	h.get(c, "/transactions", "Transactions retrieved successfully")
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	h.get(c, "/transactions/"+c.Param("id"), "Transaction retrieved successfully")
}

// Sync handles POST /transactions/:id/sync - reconciles a gateway-paid
// transaction's payment status with the gateway record
func (h *TransactionHandler) Sync(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transaction ID",
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)

	tx, err := h.backend.SyncTransaction(c.Request.Context(), sess.Token, uint(id))
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction status synced successfully",
		"data":    tx,
	})
}

// Receipt handles GET /transactions/:id/receipt - renders the receipt PDF
func (h *TransactionHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transaction ID",
		})
		return
	}

	sess, _ := middleware.GetSessionFromContext(c)

	tx, err := h.backend.TransactionByID(c.Request.Context(), sess.Token, uint(id))
	if err != nil {
		respondBackendError(c, h.sessions, err)
		return
	}

	pdf, err := h.receipts.Generate(tx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", tx.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// ReportSummary handles GET /transactions/report/summary
func (h *TransactionHandler) ReportSummary(c *gin.Context) {
	h.get(c, "/transactions/report/summary", "Report retrieved successfully")
}

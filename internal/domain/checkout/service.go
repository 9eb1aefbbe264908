// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/cart"
	"github.com/your-org/pos-terminal/internal/domain/notify"
)

// ErrUnknownMethod rejects a payment method the dispatcher has no path for
var ErrUnknownMethod = errors.New("unknown payment method")

// Backend is the subset of the upstream client the dispatcher needs
type Backend interface {
	CreateTransaction(ctx context.Context, token string, req *backend.TransactionRequest) (*backend.CheckoutData, error)
	SyncTransaction(ctx context.Context, token string, id uint) (*backend.Transaction, error)
}

// Carts is the cart surface the dispatcher drives
type Carts interface {
	BuildOrder(sessionID string, customer cart.CustomerInfo, method cart.PaymentMethod) (*backend.TransactionRequest, error)
	Clear(sessionID string)
}

// Catalog lets the dispatcher invalidate stale stock after a sale
type Catalog interface {
	Invalidate(ctx context.Context) error
}

// Notifier raises transient notices toward the terminal
type Notifier interface {
	Notify(sessionID string, level notify.Level, message string)
}

// Service routes a checkout by payment method: cash and transfer settle
// synchronously, the gateway method hands control to the hosted widget
// and waits for its outcome report.
type Service struct {
	backend  Backend
	carts    Carts
	catalog  Catalog
	guard    Guard
	notifier Notifier
	logger   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(b Backend, carts Carts, catalog Catalog, guard Guard, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		backend:  b,
		carts:    carts,
		catalog:  catalog,
		guard:    guard,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit runs one checkout attempt for a session. At most one submission
// is in flight per session; a concurrent attempt is rejected before any
// network call. An empty cart fails the same way, with no order created.
func (s *Service) Submit(ctx context.Context, sessionID, token string, req Request) (*Result, error) {
	if !req.Method.Valid() {
		return nil, ErrUnknownMethod
	}

	acquired, err := s.guard.AcquireLock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !acquired {
		return nil, ErrCheckoutInFlight
	}
	defer func() {
		if err := s.guard.ReleaseLock(context.WithoutCancel(ctx), sessionID); err != nil {
			s.logger.WithError(err).Warn("Failed to release checkout lock")
		}
	}()

	order, err := s.carts.BuildOrder(sessionID, req.Customer, req.Method)
	if err != nil {
		return nil, err
	}
	order.Notes = req.Notes

	data, err := s.backend.CreateTransaction(ctx, token, order)
	if err != nil {
		// Submission failed: the cart stays as-is so the cashier can retry
		return nil, err
	}

	if req.Method == cart.PaymentMidtrans {
		if err := s.guard.PutAttempt(ctx, sessionID, data.Transaction.ID); err != nil {
			return nil, fmt.Errorf("failed to record gateway attempt: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"session_id":     sessionID,
			"transaction_id": data.Transaction.ID,
			"invoice":        data.Transaction.InvoiceNumber,
		}).Info("Gateway payment pending")

		tx := data.Transaction
		return &Result{
			State:       StateGatewayPending,
			Transaction: &tx,
			SnapToken:   data.MidtransToken,
			ClientKey:   data.ClientKey,
			SnapURL:     SnapURL(data.IsProduction),
		}, nil
	}

	// Cash or transfer: settled synchronously
	s.carts.Clear(sessionID)
	s.notifier.Notify(sessionID, notify.LevelSuccess,
		fmt.Sprintf("Payment received, invoice %s", data.Transaction.InvoiceNumber))
	s.refreshCatalog(sessionID)

	tx := data.Transaction
	return &Result{State: StateCompleted, Transaction: &tx}, nil
}

// Resolve consumes a widget outcome for the session's open gateway
// attempt. Success and pending both clear the cart: pending keeps the
// order from being created twice if the cashier returns and retries,
// at the cost of losing the cart should the payment never settle.
func (s *Service) Resolve(ctx context.Context, sessionID, token string, report OutcomeReport) (*Resolution, error) {
	if !report.Outcome.Valid() {
		return nil, fmt.Errorf("invalid gateway outcome %q", report.Outcome)
	}

	transactionID, err := s.guard.GetAttempt(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if report.TransactionID != 0 && report.TransactionID != transactionID {
		return nil, ErrAttemptMismatch
	}

	switch report.Outcome {
	case OutcomeSuccess:
		// Best-effort reconcile; the payment already succeeded at the
		// gateway, so a failed sync degrades to a warning.
		tx, syncErr := s.backend.SyncTransaction(ctx, token, transactionID)
		if syncErr != nil {
			s.logger.WithError(syncErr).WithField("transaction_id", transactionID).
				Warn("Payment status sync failed after gateway success")
			s.notifier.Notify(sessionID, notify.LevelWarning,
				"Payment succeeded but status sync failed; check transaction history")
		}

		s.carts.Clear(sessionID)
		s.clearAttempt(ctx, sessionID)
		s.refreshCatalog(sessionID)

		return &Resolution{Outcome: OutcomeSuccess, Transaction: tx, CartCleared: true}, nil

	case OutcomePending:
		s.carts.Clear(sessionID)
		s.clearAttempt(ctx, sessionID)
		s.notifier.Notify(sessionID, notify.LevelPending,
			"Payment pending; check transaction history for the final status")
		s.refreshCatalog(sessionID)

		return &Resolution{Outcome: OutcomePending, CartCleared: true}, nil

	case OutcomeError:
		// Cart and attempt stay so the cashier can retry the payment
		msg := "Payment failed"
		if report.Message != "" {
			msg = fmt.Sprintf("Payment failed: %s", report.Message)
		}
		s.notifier.Notify(sessionID, notify.LevelError, msg)

		return &Resolution{Outcome: OutcomeError}, nil

	default: // OutcomeCancelled
		// Widget dismissed without a terminal result: abandon silently,
		// cart and attempt remain for a retry.
		return &Resolution{Outcome: OutcomeCancelled}, nil
	}
}

func (s *Service) clearAttempt(ctx context.Context, sessionID string) {
	if err := s.guard.ClearAttempt(ctx, sessionID); err != nil {
		s.logger.WithError(err).Warn("Failed to clear gateway attempt")
	}
}

// refreshCatalog invalidates the cached stock in the background. The
// success response is not held back for it; a briefly stale count is
// accepted for responsiveness.
func (s *Service) refreshCatalog(sessionID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.catalog.Invalidate(ctx); err != nil {
			s.logger.WithError(err).WithField("session_id", sessionID).
				Warn("Failed to invalidate catalog after checkout")
		}
	}()
}

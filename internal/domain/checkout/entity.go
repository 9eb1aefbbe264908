// internal/domain/checkout/entity.go
package checkout

import (
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/cart"
)

// State tracks a checkout attempt through the dispatcher
type State string

const (
	StateIdle           State = "idle"
	StateSubmitting     State = "submitting"
	StateCompleted      State = "completed"
	StateGatewayPending State = "gateway_pending"
	StateFailed         State = "failed"
)

// Outcome is the tagged result reported back by the hosted payment
// widget. Each outcome is terminal for the attempt it belongs to.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomePending   Outcome = "pending"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// Valid reports whether the outcome is one of the widget's four results
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomePending, OutcomeError, OutcomeCancelled:
		return true
	}
	return false
}

// Snap widget script URLs, selected by the upstream environment flag
const (
	snapURLSandbox    = "https://app.sandbox.midtrans.com/snap/snap.js"
	snapURLProduction = "https://app.midtrans.com/snap/snap.js"
)

// SnapURL returns the widget script URL for the given environment. The
// terminal loads the script at most once per page lifetime and reuses it
// on later checkouts; the URL is stable per environment.
func SnapURL(isProduction bool) string {
	if isProduction {
		return snapURLProduction
	}
	return snapURLSandbox
}

// Request is a checkout invocation from the terminal
type Request struct {
	Customer cart.CustomerInfo
	Method   cart.PaymentMethod
	Notes    string
}

// Result is the immediate response to a checkout submission. For the
// gateway method the transaction is created but unpaid: the widget
// fields hand control to the hosted checkout.
type Result struct {
	State       State                `json:"state"`
	Transaction *backend.Transaction `json:"transaction,omitempty"`
	SnapToken   string               `json:"snap_token,omitempty"`
	ClientKey   string               `json:"client_key,omitempty"`
	SnapURL     string               `json:"snap_url,omitempty"`
}

// OutcomeReport is the widget result the terminal relays back
type OutcomeReport struct {
	TransactionID uint
	Outcome       Outcome
	Message       string
}

// Resolution is the dispatcher's reaction to a widget outcome
type Resolution struct {
	Outcome     Outcome              `json:"outcome"`
	Transaction *backend.Transaction `json:"transaction,omitempty"`
	CartCleared bool                 `json:"cart_cleared"`
}

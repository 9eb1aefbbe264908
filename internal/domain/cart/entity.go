// internal/domain/cart/entity.go
package cart

import (
	"math"
	"time"
)

// TaxRatePercent is the fixed PPN rate applied to every sale
const TaxRatePercent = 11

// PaymentMethod identifies how a checkout is settled
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentMidtrans PaymentMethod = "midtrans"
)

// Valid reports whether the payment method is one the dispatcher knows
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentMidtrans:
		return true
	}
	return false
}

// Line is one product entry in a cart. Price and StockCeiling are
// snapshots taken when the line was created; the ceiling caps the
// quantity until the catalog is refetched.
type Line struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Price        int64  `json:"price"`
	StockCeiling int    `json:"stock_ceiling"`
	Quantity     int    `json:"quantity"`
}

// Subtotal returns the line amount
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is the in-progress, unsubmitted set of lines a cashier is about
// to sell. Lines keep insertion order; at most one line per product.
type Cart struct {
	Lines           []Line    `json:"lines"`
	DiscountPercent int       `json:"discount_percent"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Totals holds the derived cart amounts in integer rupiah
type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	DiscountAmount int64 `json:"discount_amount"`
	TaxableAmount  int64 `json:"taxable_amount"`
	Tax            int64 `json:"tax"`
	Total          int64 `json:"total"`
}

// Totals computes the cart amounts. The discount is a percentage of the
// subtotal, not per-line; tax applies to the discounted amount. Both
// derived amounts round half-up to the nearest rupiah so repeated calls
// over the same state always agree.
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, line := range c.Lines {
		subtotal += line.Subtotal()
	}

	discount := roundHalfUp(float64(subtotal) * float64(c.DiscountPercent) / 100)
	taxable := subtotal - discount
	tax := roundHalfUp(float64(taxable) * float64(TaxRatePercent) / 100)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		Tax:            tax,
		Total:          taxable + tax,
	}
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Lines)
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func roundHalfUp(v float64) int64 {
	// Amounts are never negative here; math.Round rounds half away
	// from zero, which is half-up on this domain.
	return int64(math.Round(v))
}

// CustomerInfo is the optional customer identity attached at checkout
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

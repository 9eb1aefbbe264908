// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/domain/notify"
)

var (
	// ErrEmptyCart rejects a checkout before any network call is made
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDiscountOutOfRange rejects discount percentages outside 0-100
	ErrDiscountOutOfRange = errors.New("discount percent must be between 0 and 100")

	// ErrLineNotFound reports a quantity update for a product not in the cart
	ErrLineNotFound = errors.New("product is not in the cart")
)

// StockExceededError rejects a quantity above the line's stock ceiling
type StockExceededError struct {
	Name  string
	Stock int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("only %d of %s in stock", e.Stock, e.Name)
}

// Notifier raises transient notices toward the terminal
type Notifier interface {
	Notify(sessionID string, level notify.Level, message string)
}

// Service owns one cart per terminal session. Carts live in memory only:
// they are discarded on logout, explicit clear or idle expiry, never
// persisted.
type Service struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	notifier Notifier
	logger   *logrus.Logger
	idleTTL  time.Duration
}

// NewService creates a new cart service
func NewService(notifier Notifier, logger *logrus.Logger, idleTTL time.Duration) *Service {
	return &Service{
		carts:    make(map[string]*Cart),
		notifier: notifier,
		logger:   logger,
		idleTTL:  idleTTL,
	}
}

// View is a read snapshot of a cart with its derived totals
type View struct {
	Lines           []Line `json:"lines"`
	DiscountPercent int    `json:"discount_percent"`
	ItemCount       int    `json:"item_count"`
	Totals          Totals `json:"totals"`
}

// Snapshot returns the current cart state for a session
func (s *Service) Snapshot(sessionID string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)

	return &View{
		Lines:           lines,
		DiscountPercent: c.DiscountPercent,
		ItemCount:       c.ItemCount(),
		Totals:          c.Totals(),
	}
}

// AddItem puts one unit of a product into the session's cart. A product
// already in the cart has its quantity incremented instead of gaining a
// second line; the increment is rejected when it would pass the stock
// ceiling captured at add time.
func (s *Service) AddItem(sessionID string, p backend.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)

	if i := findLine(c, p.ID); i >= 0 {
		line := &c.Lines[i]
		if line.Quantity+1 > line.StockCeiling {
			s.notifier.Notify(sessionID, notify.LevelWarning,
				fmt.Sprintf("Only %d of %s in stock", line.StockCeiling, line.Name))
			return &StockExceededError{Name: line.Name, Stock: line.StockCeiling}
		}
		line.Quantity++
		c.UpdatedAt = time.Now().UTC()
		s.notifier.Notify(sessionID, notify.LevelSuccess, fmt.Sprintf("%s quantity +1", line.Name))
		return nil
	}

	if !p.IsActive || p.Stock < 1 {
		s.notifier.Notify(sessionID, notify.LevelWarning,
			fmt.Sprintf("%s is out of stock", p.Name))
		return &StockExceededError{Name: p.Name, Stock: p.Stock}
	}

	c.Lines = append(c.Lines, Line{
		ProductID:    p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Price:        p.Price,
		StockCeiling: p.Stock,
		Quantity:     1,
	})
	c.UpdatedAt = time.Now().UTC()
	s.notifier.Notify(sessionID, notify.LevelSuccess, fmt.Sprintf("%s added to cart", p.Name))
	return nil
}

// UpdateQuantity adjusts a line's quantity by delta. A result of zero or
// less removes the line; a result above the stock ceiling is rejected
// and the quantity stays unchanged.
func (s *Service) UpdateQuantity(sessionID string, productID uint, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	i := findLine(c, productID)
	if i < 0 {
		return ErrLineNotFound
	}

	line := &c.Lines[i]
	newQty := line.Quantity + delta

	if newQty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		c.UpdatedAt = time.Now().UTC()
		return nil
	}

	if newQty > line.StockCeiling {
		s.notifier.Notify(sessionID, notify.LevelWarning,
			fmt.Sprintf("Only %d of %s in stock", line.StockCeiling, line.Name))
		return &StockExceededError{Name: line.Name, Stock: line.StockCeiling}
	}

	line.Quantity = newQty
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveItem deletes a line unconditionally
func (s *Service) RemoveItem(sessionID string, productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	if i := findLine(c, productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		c.UpdatedAt = time.Now().UTC()
	}
}

// Clear empties the cart and resets the discount
func (s *Service) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// SetDiscountPercent sets the cart-level discount. The UI constrains the
// input already; out-of-range values are rejected here regardless.
func (s *Service) SetDiscountPercent(sessionID string, percent int) error {
	if percent < 0 || percent > 100 {
		return ErrDiscountOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	c.DiscountPercent = percent
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// BuildOrder turns the cart into an order submission payload. Line-level
// discounts are always zero; only the cart-level discount amount is sent.
func (s *Service) BuildOrder(sessionID string, customer CustomerInfo, method PaymentMethod) (*backend.TransactionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]backend.OrderItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = backend.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Discount:  0,
		}
	}

	name := customer.Name
	if name == "" {
		name = "Umum"
	}

	totals := c.Totals()
	return &backend.TransactionRequest{
		CustomerName:  name,
		CustomerPhone: customer.Phone,
		Items:         items,
		Discount:      totals.DiscountAmount,
		TaxPercentage: TaxRatePercent,
		PaymentMethod: string(method),
	}, nil
}

// cart returns the session's cart, creating it on first use. Callers
// must hold the lock. Idle carts are swept opportunistically.
func (s *Service) cart(sessionID string) *Cart {
	s.pruneIdle()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{UpdatedAt: time.Now().UTC()}
		s.carts[sessionID] = c
	}
	return c
}

func (s *Service) pruneIdle() {
	if s.idleTTL <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-s.idleTTL)
	for id, c := range s.carts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
			s.logger.WithField("session_id", id).Debug("Discarded idle cart")
		}
	}
}

func findLine(c *Cart, productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

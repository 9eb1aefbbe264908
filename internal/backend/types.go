// internal/backend/types.go
package backend

import "time"

// Product mirrors the upstream product resource. Stock is authoritative
// on the server and only refreshed by refetching the catalog.
type Product struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Barcode    string `json:"barcode,omitempty"`
	Price      int64  `json:"price"`
	CostPrice  int64  `json:"cost_price"`
	Stock      int    `json:"stock"`
	MinStock   int    `json:"min_stock"`
	CategoryID uint   `json:"category_id"`
	IsActive   bool   `json:"is_active"`
	Image      string `json:"image,omitempty"`
}

// Category mirrors the upstream category resource
type Category struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
	Image        string `json:"image,omitempty"`
	ProductCount int    `json:"products_count,omitempty"`
}

// User mirrors the upstream user resource
type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Transaction is the client-side projection of a server-owned order
type Transaction struct {
	ID            uint              `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Subtotal      int64             `json:"subtotal"`
	Discount      int64             `json:"discount"`
	Tax           int64             `json:"tax"`
	Total         int64             `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus string            `json:"payment_status"`
	Notes         string            `json:"notes,omitempty"`
	Items         []TransactionItem `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TransactionItem is one sold line inside a transaction
type TransactionItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Discount    int64  `json:"discount"`
	Subtotal    int64  `json:"subtotal"`
}

// OrderItem is one line of an order submission
type OrderItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Discount  int64 `json:"discount"`
}

// TransactionRequest is the order submission payload for POST /transactions
type TransactionRequest struct {
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Items         []OrderItem `json:"items"`
	Discount      int64       `json:"discount"`
	TaxPercentage int         `json:"tax_percentage"`
	PaymentMethod string      `json:"payment_method"`
	Notes         string      `json:"notes"`
}

// CheckoutData is the order submission response. For the gateway payment
// method the upstream additionally returns a short-lived widget token,
// the gateway client key and an environment flag.
type CheckoutData struct {
	Transaction   Transaction `json:"transaction"`
	MidtransToken string      `json:"midtrans_token,omitempty"`
	ClientKey     string      `json:"client_key,omitempty"`
	IsProduction  bool        `json:"is_production,omitempty"`
}

// LoginResult carries the upstream bearer token and user profile
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Pagination describes an upstream paginated listing
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// ProductPage is a page of products plus its pagination metadata.
// Pagination is nil when the upstream returned a plain list.
type ProductPage struct {
	Items      []Product
	Pagination *Pagination
}

// ProductQuery holds the supported product listing filters
type ProductQuery struct {
	Search     string
	Page       int
	PerPage    int
	ActiveOnly bool
	LowStock   bool
}

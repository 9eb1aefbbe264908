// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/config"
)

// ErrUnauthorized is the universal "session invalid" signal: any upstream
// response in the 401 class maps to it so callers can tear the session down.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError carries an upstream failure with its status and message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// Client talks to the upstream retail API. It holds no credentials of its
// own; the caller passes the bearer token of the acting session per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new upstream API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		logger: logger,
	}
}

// envelope is the upstream response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call makes an HTTP call to the upstream API and returns the data payload
func (c *Client) call(ctx context.Context, token, method, endpoint string, query url.Values, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    endpoint,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("Backend call completed")

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return env.Data, nil
}

// Login authenticates against the upstream API
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	data, err := c.call(ctx, "", http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &result, nil
}

// Logout invalidates the upstream bearer token
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.call(ctx, token, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me fetches the profile of the token's user
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	data, err := c.call(ctx, token, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &user, nil
}

// Products fetches a product listing. The upstream answers either a plain
// list or a paginated wrapper depending on the query; both are handled.
func (c *Client) Products(ctx context.Context, token string, q ProductQuery) (*ProductPage, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.ActiveOnly {
		query.Set("is_active", "1")
	}
	if q.LowStock {
		query.Set("low_stock", "1")
	}

	data, err := c.call(ctx, token, http.MethodGet, "/products", query, nil)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(data)
}

func decodeProductPage(data json.RawMessage) (*ProductPage, error) {
	// Paginated shape: {"data":[...],"current_page":...}
	var paged struct {
		Data json.RawMessage `json:"data"`
		Pagination
	}
	if err := json.Unmarshal(data, &paged); err == nil && paged.Data != nil {
		var items []Product
		if err := json.Unmarshal(paged.Data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse product page: %w", err)
		}
		p := paged.Pagination
		return &ProductPage{Items: items, Pagination: &p}, nil
	}

	var items []Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse product list: %w", err)
	}
	return &ProductPage{Items: items}, nil
}

// ProductByBarcode looks up a single product by exact barcode or SKU
func (c *Client) ProductByBarcode(ctx context.Context, token, code string) (*Product, error) {
	query := url.Values{}
	query.Set("barcode", code)

	data, err := c.call(ctx, token, http.MethodGet, "/products/search/barcode", query, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}
	return &product, nil
}

// Categories fetches the category list
func (c *Client) Categories(ctx context.Context, token string, activeOnly bool) ([]Category, error) {
	query := url.Values{}
	if activeOnly {
		query.Set("is_active", "1")
	}

	data, err := c.call(ctx, token, http.MethodGet, "/categories", query, nil)
	if err != nil {
		return nil, err
	}

	// Category listings come back paginated or plain, same as products
	var paged struct {
		Data []Category `json:"data"`
	}
	if err := json.Unmarshal(data, &paged); err == nil && paged.Data != nil {
		return paged.Data, nil
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse category list: %w", err)
	}
	return categories, nil
}

// CreateTransaction submits an order. For the cash and transfer methods the
// upstream returns the transaction directly; for the gateway method the
// transaction arrives nested next to the widget token.
func (c *Client) CreateTransaction(ctx context.Context, token string, req *TransactionRequest) (*CheckoutData, error) {
	data, err := c.call(ctx, token, http.MethodPost, "/transactions", nil, req)
	if err != nil {
		return nil, err
	}

	var checkout CheckoutData
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, fmt.Errorf("failed to parse transaction response: %w", err)
	}
	if checkout.Transaction.ID == 0 {
		if err := json.Unmarshal(data, &checkout.Transaction); err != nil {
			return nil, fmt.Errorf("failed to parse transaction response: %w", err)
		}
	}
	return &checkout, nil
}

// TransactionByID fetches a single transaction with its items
func (c *Client) TransactionByID(ctx context.Context, token string, id uint) (*Transaction, error) {
	data, err := c.call(ctx, token, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &tx, nil
}

// SyncTransaction reconciles the payment status of a gateway-paid order
// with the gateway's authoritative record
func (c *Client) SyncTransaction(ctx context.Context, token string, id uint) (*Transaction, error) {
	data, err := c.call(ctx, token, http.MethodGet, fmt.Sprintf("/transactions/%d/sync", id), nil, nil)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse sync response: %w", err)
	}
	return &tx, nil
}

// Ping probes upstream reachability for readiness checks. Any HTTP
// response counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Get proxies a GET request and returns the raw data payload
func (c *Client) Get(ctx context.Context, token, endpoint string, query url.Values) (json.RawMessage, error) {
	return c.call(ctx, token, http.MethodGet, endpoint, query, nil)
}

// Post proxies a POST request and returns the raw data payload
func (c *Client) Post(ctx context.Context, token, endpoint string, body interface{}) (json.RawMessage, error) {
	return c.call(ctx, token, http.MethodPost, endpoint, nil, body)
}

// Put proxies a PUT request and returns the raw data payload
func (c *Client) Put(ctx context.Context, token, endpoint string, body interface{}) (json.RawMessage, error) {
	return c.call(ctx, token, http.MethodPut, endpoint, nil, body)
}

// Delete proxies a DELETE request and returns the raw data payload
func (c *Client) Delete(ctx context.Context, token, endpoint string) (json.RawMessage, error) {
	return c.call(ctx, token, http.MethodDelete, endpoint, nil, nil)
}

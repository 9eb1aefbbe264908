// internal/backend/client_test.go
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-terminal/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = server.URL
	cfg.Backend.Timeout = 5 * time.Second

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewClient(cfg, logger), server
}

func TestLoginSendsCredentialsAndParsesResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kasir@toko.id", body["email"])
		assert.Equal(t, "rahasia", body["password"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Login successful",
			"data": map[string]interface{}{
				"token": "upstream-token",
				"user":  map[string]interface{}{"id": 7, "name": "Kasir", "role": "cashier"},
			},
		})
	}))

	result, err := client.Login(context.Background(), "kasir@toko.id", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", result.Token)
	assert.Equal(t, uint(7), result.User.ID)
	assert.Equal(t, "cashier", result.User.Role)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Unauthenticated",
		})
	}))

	_, err := client.Me(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpstreamErrorCarriesStatusAndMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Insufficient stock",
		})
	}))

	_, err := client.CreateTransaction(context.Background(), "token", &TransactionRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Insufficient stock", apiErr.Error())
}

func TestBearerTokenForwarded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer the-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{}})
	}))

	_, err := client.Me(context.Background(), "the-token")
	require.NoError(t, err)
}

func TestProductsParsesPaginatedListing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kopi", r.URL.Query().Get("search"))
		assert.Equal(t, "1", r.URL.Query().Get("is_active"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"data": []map[string]interface{}{
					{"id": 1, "name": "Kopi Hitam", "price": 15000, "stock": 10},
				},
				"current_page": 1,
				"last_page":    3,
				"per_page":     15,
				"total":        45,
			},
		})
	}))

	page, err := client.Products(context.Background(), "token", ProductQuery{Search: "kopi", ActiveOnly: true})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Kopi Hitam", page.Items[0].Name)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 3, page.Pagination.LastPage)
	assert.Equal(t, 45, page.Pagination.Total)
}

func TestProductsParsesPlainListing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": 1, "name": "Kopi Hitam"},
				{"id": 2, "name": "Teh Manis"},
			},
		})
	}))

	page, err := client.Products(context.Background(), "token", ProductQuery{})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Pagination)
}

func TestCreateTransactionParsesGatewayResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"transaction":    map[string]interface{}{"id": 42, "invoice_number": "INV-042"},
				"midtrans_token": "snap-abc",
				"client_key":     "ck-123",
				"is_production":  false,
			},
		})
	}))

	data, err := client.CreateTransaction(context.Background(), "token", &TransactionRequest{})
	require.NoError(t, err)

	assert.Equal(t, uint(42), data.Transaction.ID)
	assert.Equal(t, "snap-abc", data.MidtransToken)
	assert.Equal(t, "ck-123", data.ClientKey)
	assert.False(t, data.IsProduction)
}

func TestCreateTransactionParsesDirectResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":             7,
				"invoice_number": "INV-007",
				"payment_method": "cash",
			},
		})
	}))

	data, err := client.CreateTransaction(context.Background(), "token", &TransactionRequest{})
	require.NoError(t, err)

	assert.Equal(t, uint(7), data.Transaction.ID)
	assert.Equal(t, "INV-007", data.Transaction.InvoiceNumber)
	assert.Empty(t, data.MidtransToken)
}

func TestSyncTransactionHitsSyncEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/42/sync", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 42, "payment_status": "paid"},
		})
	}))

	tx, err := client.SyncTransaction(context.Background(), "token", 42)
	require.NoError(t, err)
	assert.Equal(t, "paid", tx.PaymentStatus)
}

func TestPingReportsReachableUpstream(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reachability is transport-level; the status does not matter
		w.WriteHeader(http.StatusNotFound)
	}))

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingFailsWhenUpstreamIsDown(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	assert.Error(t, client.Ping(context.Background()))
}

func TestGetProxyPassesQueryThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []interface{}{},
		})
	}))

	query := map[string][]string{"page": {"2"}, "start_date": {"2024-01-01"}}
	data, err := client.Get(context.Background(), "token", "/transactions", query)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

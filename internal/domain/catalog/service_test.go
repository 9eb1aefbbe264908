// internal/domain/catalog/service_test.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-terminal/internal/backend"
)

type fakeBackend struct {
	products      []backend.Product
	productsErr   error
	productsCalls int

	categories []backend.Category

	barcodeProduct *backend.Product
	barcodeErr     error
	barcodeCalls   int
}

func (f *fakeBackend) Products(ctx context.Context, token string, q backend.ProductQuery) (*backend.ProductPage, error) {
	f.productsCalls++
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return &backend.ProductPage{Items: f.products}, nil
}

func (f *fakeBackend) Categories(ctx context.Context, token string, activeOnly bool) ([]backend.Category, error) {
	return f.categories, nil
}

func (f *fakeBackend) ProductByBarcode(ctx context.Context, token, code string) (*backend.Product, error) {
	f.barcodeCalls++
	if f.barcodeErr != nil {
		return nil, f.barcodeErr
	}
	return f.barcodeProduct, nil
}

// fakeCache is an in-memory stand-in for the redis JSON helpers
type fakeCache struct {
	data     map[string][]byte
	setErr   error
	setCalls int
	delCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.delCalls++
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func newTestService(b *fakeBackend, cache *fakeCache) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(b, cache, logger, 5*time.Minute)
}

func TestGetFetchesOnCacheMiss(t *testing.T) {
	b := &fakeBackend{
		products:   []backend.Product{{ID: 1, Name: "Kopi", IsActive: true, Stock: 5}},
		categories: []backend.Category{{ID: 1, Name: "Minuman"}},
	}
	cache := newFakeCache()
	svc := newTestService(b, cache)

	snap, err := svc.Get(context.Background(), "token")
	require.NoError(t, err)

	assert.Len(t, snap.Products, 1)
	assert.Len(t, snap.Categories, 1)
	assert.Equal(t, 1, b.productsCalls)
	assert.Contains(t, cache.data, snapshotKey)
}

func TestGetServesFromCache(t *testing.T) {
	b := &fakeBackend{products: []backend.Product{{ID: 1, Name: "Kopi", IsActive: true, Stock: 5}}}
	cache := newFakeCache()
	svc := newTestService(b, cache)

	_, err := svc.Get(context.Background(), "token")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "token")
	require.NoError(t, err)

	// Second read never reached the upstream
	assert.Equal(t, 1, b.productsCalls)
}

func TestRefreshReplacesCacheAndToleratesWriteFailure(t *testing.T) {
	b := &fakeBackend{products: []backend.Product{{ID: 1, Name: "Kopi"}}}
	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	svc := newTestService(b, cache)

	snap, err := svc.Refresh(context.Background(), "token")
	require.NoError(t, err)
	assert.Len(t, snap.Products, 1)
	assert.Equal(t, 1, cache.setCalls)
}

func TestRefreshPropagatesUpstreamFailure(t *testing.T) {
	b := &fakeBackend{productsErr: errors.New("upstream down")}
	svc := newTestService(b, newFakeCache())

	_, err := svc.Refresh(context.Background(), "token")
	assert.Error(t, err)
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	b := &fakeBackend{products: []backend.Product{{ID: 1}}}
	cache := newFakeCache()
	svc := newTestService(b, cache)

	_, err := svc.Get(context.Background(), "token")
	require.NoError(t, err)
	require.Contains(t, cache.data, snapshotKey)

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.NotContains(t, cache.data, snapshotKey)

	_, err = svc.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, 2, b.productsCalls)
}

func TestAddableFiltersInactiveAndOutOfStock(t *testing.T) {
	snap := &Snapshot{Products: []backend.Product{
		{ID: 1, Name: "Kopi", IsActive: true, Stock: 5},
		{ID: 2, Name: "Teh", IsActive: true, Stock: 0},
		{ID: 3, Name: "Gula", IsActive: false, Stock: 9},
	}}

	out := Addable(snap, "", 0)
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)
}

func TestAddableSearchMatchesNameSKUAndBarcode(t *testing.T) {
	snap := &Snapshot{Products: []backend.Product{
		{ID: 1, Name: "Kopi Hitam", SKU: "KH-01", Barcode: "899111", IsActive: true, Stock: 5},
		{ID: 2, Name: "Teh Manis", SKU: "TM-01", Barcode: "899222", IsActive: true, Stock: 5},
	}}

	assert.Len(t, Addable(snap, "kopi", 0), 1)
	assert.Len(t, Addable(snap, "tm-01", 0), 1)
	assert.Len(t, Addable(snap, "899", 0), 2)
	assert.Empty(t, Addable(snap, "susu", 0))
}

func TestAddableCategoryFacet(t *testing.T) {
	snap := &Snapshot{Products: []backend.Product{
		{ID: 1, CategoryID: 10, IsActive: true, Stock: 5},
		{ID: 2, CategoryID: 20, IsActive: true, Stock: 5},
	}}

	out := Addable(snap, "", 20)
	require.Len(t, out, 1)
	assert.Equal(t, uint(2), out[0].ID)
}

func TestFindByBarcodeHitsSnapshotFirst(t *testing.T) {
	b := &fakeBackend{products: []backend.Product{
		{ID: 1, SKU: "KH-01", Barcode: "899111", IsActive: true, Stock: 5},
	}}
	svc := newTestService(b, newFakeCache())

	p, err := svc.FindByBarcode(context.Background(), "token", "899111")
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
	assert.Equal(t, 0, b.barcodeCalls)
}

func TestFindByBarcodeFallsBackToUpstream(t *testing.T) {
	b := &fakeBackend{
		products:       []backend.Product{{ID: 1, SKU: "KH-01", IsActive: true, Stock: 5}},
		barcodeProduct: &backend.Product{ID: 9, Barcode: "777000"},
	}
	svc := newTestService(b, newFakeCache())

	p, err := svc.FindByBarcode(context.Background(), "token", "777000")
	require.NoError(t, err)
	assert.Equal(t, uint(9), p.ID)
	assert.Equal(t, 1, b.barcodeCalls)
}

func TestFindByBarcodeUnknownCode(t *testing.T) {
	b := &fakeBackend{barcodeErr: errors.New("not found")}
	svc := newTestService(b, newFakeCache())

	_, err := svc.FindByBarcode(context.Background(), "token", "000000")
	assert.Error(t, err)
}

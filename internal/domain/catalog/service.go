// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
)

const snapshotKey = "catalog:snapshot"

// Backend is the subset of the upstream client the catalog needs
type Backend interface {
	Products(ctx context.Context, token string, q backend.ProductQuery) (*backend.ProductPage, error)
	Categories(ctx context.Context, token string, activeOnly bool) ([]backend.Category, error)
	ProductByBarcode(ctx context.Context, token, code string) (*backend.Product, error)
}

// Cache is the key-value store holding the catalog snapshot
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Snapshot is the cached mirror of the upstream catalog. Stock counts in
// it are only as fresh as FetchedAt; the upstream stays authoritative.
type Snapshot struct {
	Products   []backend.Product  `json:"products"`
	Categories []backend.Category `json:"categories"`
	FetchedAt  time.Time          `json:"fetched_at"`
}

// Service fetches and holds the product and category lists. Refreshes are
// whole-list, never incremental.
type Service struct {
	backend Backend
	cache   Cache
	logger  *logrus.Logger
	ttl     time.Duration
}

// NewService creates a new catalog service
func NewService(b Backend, cache Cache, logger *logrus.Logger, ttl time.Duration) *Service {
	return &Service{
		backend: b,
		cache:   cache,
		logger:  logger,
		ttl:     ttl,
	}
}

// Get returns the cached snapshot, fetching from the upstream on a miss
func (s *Service) Get(ctx context.Context, token string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.cache.GetJSON(ctx, snapshotKey, &snap); err == nil {
		return &snap, nil
	}
	return s.Refresh(ctx, token)
}

// Refresh refetches the catalog from the upstream and replaces the cache
func (s *Service) Refresh(ctx context.Context, token string) (*Snapshot, error) {
	page, err := s.backend.Products(ctx, token, backend.ProductQuery{
		PerPage:    1000,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	categories, err := s.backend.Categories(ctx, token, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	snap := &Snapshot{
		Products:   page.Items,
		Categories: categories,
		FetchedAt:  time.Now().UTC(),
	}

	if err := s.cache.SetJSON(ctx, snapshotKey, snap, s.ttl); err != nil {
		// A failed cache write degrades to fetch-per-request
		s.logger.WithError(err).Warn("Failed to cache catalog snapshot")
	}

	return snap, nil
}

// Invalidate drops the cached snapshot so the next read refetches.
// Called in the background after a completed checkout.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, snapshotKey)
}

// Addable filters the snapshot down to products a cashier can ring up:
// active with stock on hand. The optional search matches name, SKU or
// barcode case-insensitively; categoryID zero means all categories.
func Addable(snap *Snapshot, search string, categoryID uint) []backend.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]backend.Product, 0, len(snap.Products))

	for _, p := range snap.Products {
		if !p.IsActive || p.Stock <= 0 {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p backend.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.SKU), needle) ||
		strings.Contains(strings.ToLower(p.Barcode), needle)
}

// FindByBarcode resolves an exact SKU or barcode against the cached
// snapshot first and falls back to the upstream lookup on a miss.
func (s *Service) FindByBarcode(ctx context.Context, token, code string) (*backend.Product, error) {
	snap, err := s.Get(ctx, token)
	if err == nil {
		for i := range snap.Products {
			p := snap.Products[i]
			if p.SKU == code || (p.Barcode != "" && p.Barcode == code) {
				return &p, nil
			}
		}
	}

	product, err := s.backend.ProductByBarcode(ctx, token, code)
	if err != nil {
		return nil, err
	}
	return product, nil
}

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/events"
	"github.com/liquorlane/liquorfront/internal/models"
)

// ProductIndexer receives each successfully fetched catalog snapshot, for
// the optional local search index.
type ProductIndexer interface {
	IndexProducts(ctx context.Context, products []models.Product) error
}

// CatalogStore caches the product list for the storefront and the admin
// panel. Admin mutations go to the backend and are followed by a full list
// refetch; there is no partial update.
type CatalogStore struct {
	mu       sync.RWMutex
	products []models.Product
	lastErr  error

	api    *backend.Client
	tokens TokenSource
	index  ProductIndexer
	events events.Publisher
	log    *slog.Logger
}

// NewCatalogStore builds the store; index may be nil when search is not
// configured.
func NewCatalogStore(api *backend.Client, tokens TokenSource, index ProductIndexer, pub events.Publisher, log *slog.Logger) *CatalogStore {
	return &CatalogStore{api: api, tokens: tokens, index: index, events: pub, log: log}
}

// Fetch replaces the product list. On error the prior list stays and the
// store error flag is set; on success the flag clears and the snapshot is
// pushed to the search index.
func (s *CatalogStore) Fetch(ctx context.Context) error {
	products, err := s.api.Products(ctx)
	if err != nil {
		err = fmt.Errorf("fetch products: %w", err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.products = products
	s.lastErr = nil
	s.mu.Unlock()

	if s.index != nil {
		if err := s.index.IndexProducts(ctx, products); err != nil {
			s.log.Warn("failed to index catalog", "error", err)
		}
	}
	return nil
}

// FetchByID is a one-shot detail fetch. Its errors go to the caller only;
// the shared error flag and the cached list are untouched.
func (s *CatalogStore) FetchByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return product, nil
}

// Add creates a product and resynchronizes the list.
func (s *CatalogStore) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	created, err := s.api.AddProduct(ctx, s.tokens.Token(), p)
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}

	s.publish(ctx, strconv.Itoa(created.ID), map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"title":     created.Title,
	})
	return created, s.Fetch(ctx)
}

// Update overwrites a product and resynchronizes the list.
func (s *CatalogStore) Update(ctx context.Context, id int, p models.Product) error {
	if err := s.api.UpdateProduct(ctx, s.tokens.Token(), id, p); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}

	s.publish(ctx, strconv.Itoa(id), map[string]any{
		"type":      "product_updated",
		"productID": id,
		"title":     p.Title,
	})
	return s.Fetch(ctx)
}

// Delete removes a product and resynchronizes the list.
func (s *CatalogStore) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteProduct(ctx, s.tokens.Token(), id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.publish(ctx, strconv.Itoa(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return s.Fetch(ctx)
}

func (s *CatalogStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Err is the sticky list-fetch error flag, nil after the last successful
// Fetch.
func (s *CatalogStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Categories returns the fixed category enumeration.
func (s *CatalogStore) Categories() []string {
	out := make([]string, len(models.Categories))
	copy(out, models.Categories)
	return out
}

func (s *CatalogStore) publish(ctx context.Context, key string, event map[string]any) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, events.TopicProduct, key, event); err != nil {
		s.log.Error("kafka publish error", "error", err)
	}
}

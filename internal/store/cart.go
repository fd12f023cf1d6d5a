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

// CartStore caches the server-authoritative cart. Every mutation is a
// backend call followed by a full refetch; the one exception is Clear,
// which is idempotent with a fully known result and resets locally.
type CartStore struct {
	mu    sync.RWMutex
	items []models.CartItem

	api    *backend.Client
	tokens TokenSource
	events events.Publisher
	log    *slog.Logger
}

func NewCartStore(api *backend.Client, tokens TokenSource, pub events.Publisher, log *slog.Logger) *CartStore {
	return &CartStore{api: api, tokens: tokens, events: pub, log: log}
}

// Fetch replaces the snapshot with the backend's current cart. On error the
// prior snapshot stays in place (stale read).
func (s *CartStore) Fetch(ctx context.Context) error {
	items, err := s.api.CartItems(ctx, s.tokens.Token())
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add puts quantity units of a product in the cart, then resynchronizes.
// A failed add leaves the snapshot untouched; a failed refetch surfaces but
// is not rolled back.
func (s *CartStore) Add(ctx context.Context, productID, quantity int) error {
	if err := s.api.AddToCart(ctx, s.tokens.Token(), productID, quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	s.publish(ctx, strconv.Itoa(productID), map[string]any{
		"type":      "cart_item_added",
		"productID": productID,
		"quantity":  quantity,
	})
	return s.Fetch(ctx)
}

// Remove deletes a cart line by its server-assigned ID, then resynchronizes.
func (s *CartStore) Remove(ctx context.Context, lineID int) error {
	if err := s.api.RemoveFromCart(ctx, s.tokens.Token(), lineID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	s.publish(ctx, strconv.Itoa(lineID), map[string]any{
		"type":   "cart_item_removed",
		"lineID": lineID,
	})
	return s.Fetch(ctx)
}

// Clear empties the cart. On success the snapshot is reset locally without
// a refetch.
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.api.ClearCart(ctx, s.tokens.Token()); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.publish(ctx, "cart", map[string]any{"type": "cart_cleared"})
	return nil
}

func (s *CartStore) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is always recomputed from the current snapshot, never cached.
func (s *CartStore) Total() models.Price {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total models.Price
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

func (s *CartStore) publish(ctx context.Context, key string, event map[string]any) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, events.TopicCart, key, event); err != nil {
		s.log.Error("kafka publish error", "error", err)
	}
}

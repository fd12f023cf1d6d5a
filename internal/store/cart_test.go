package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/models"
)

// cartBackend is an in-memory stand-in for the remote cart service. It
// serves the wire shape (liquors array, string price) and counts fetches so
// tests can assert on the resynchronization pattern.
type cartBackend struct {
	mu         sync.Mutex
	nextID     int
	lines      map[int]cartBackendLine
	fetchCount int
	failAdd    bool
}

type cartBackendLine struct {
	ProductID int
	Quantity  int
}

func newCartBackend() *cartBackend {
	return &cartBackend{nextID: 1, lines: map[int]cartBackendLine{}}
}

func (b *cartBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.URL.Path == "/cart/api/v1/getCartItems":
			b.fetchCount++
			out := make([]map[string]any, 0, len(b.lines))
			for id, line := range b.lines {
				out = append(out, map[string]any{
					"id":       id,
					"quantity": line.Quantity,
					"liquors": []map[string]any{{
						"id":    line.ProductID,
						"title": fmt.Sprintf("product-%d", line.ProductID),
						"price": "10.00",
					}},
				})
			}
			json.NewEncoder(w).Encode(out)

		case r.URL.Path == "/cart/api/v1/addToCart":
			if b.failAdd {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			productID, _ := strconv.Atoi(r.URL.Query().Get("liquorId"))
			quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
			b.lines[b.nextID] = cartBackendLine{ProductID: productID, Quantity: quantity}
			b.nextID++

		case strings.HasPrefix(r.URL.Path, "/cart/api/v1/removeFromCart/"):
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/api/v1/removeFromCart/"))
			delete(b.lines, id)

		case r.URL.Path == "/cart/api/v1/clearCart":
			b.lines = map[int]cartBackendLine{}

		default:
			http.NotFound(w, r)
		}
	})
}

func (b *cartBackend) fetches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetchCount
}

func newCartEnv(t *testing.T) (*CartStore, *cartBackend, *fakePublisher) {
	t.Helper()
	be := newCartBackend()
	srv := httptest.NewServer(be.handler(t))
	t.Cleanup(srv.Close)

	pub := &fakePublisher{}
	s := NewCartStore(backend.NewClient(srv.URL), staticToken("t1"), pub, testLog)
	return s, be, pub
}

func quantitySum(items []models.CartItem) int {
	sum := 0
	for _, it := range items {
		sum += it.Quantity
	}
	return sum
}

func TestAddResynchronizes(t *testing.T) {
	s, _, pub := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 42, 2))
	before := quantitySum(s.Items())
	require.Equal(t, 2, before)

	require.NoError(t, s.Add(ctx, 7, 3))
	require.Equal(t, before+3, quantitySum(s.Items()))
	require.Contains(t, pub.types(), "cart_item_added")
}

func TestAddFailureLeavesSnapshotUntouched(t *testing.T) {
	s, be, _ := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 42, 2))
	snapshot := s.Items()

	be.failAdd = true
	err := s.Add(ctx, 7, 1)
	require.Error(t, err)

	se := &backend.StatusError{}
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.Code)
	require.Equal(t, snapshot, s.Items())
}

func TestRemoveResynchronizes(t *testing.T) {
	s, _, _ := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 42, 2))
	items := s.Items()
	require.Len(t, items, 1)

	require.NoError(t, s.Remove(ctx, items[0].ID))
	require.Empty(t, s.Items())
	require.Zero(t, s.Total())
}

func TestClearResetsLocallyWithoutRefetch(t *testing.T) {
	s, be, _ := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 42, 2))
	require.NotZero(t, s.Total())

	fetchesBefore := be.fetches()
	require.NoError(t, s.Clear(ctx))

	require.Empty(t, s.Items())
	require.Zero(t, s.Total())
	require.Equal(t, fetchesBefore, be.fetches(), "clear must not refetch")
}

func TestTotalRecomputedFromSnapshot(t *testing.T) {
	s, _, _ := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 1, 2))
	require.NoError(t, s.Add(ctx, 2, 3))

	// Every line is priced 10.00 by the mock backend.
	require.Equal(t, models.Price(5000), s.Total())
}

func TestFetchErrorKeepsStaleSnapshot(t *testing.T) {
	be := newCartBackend()
	srv := httptest.NewServer(be.handler(t))
	s := NewCartStore(backend.NewClient(srv.URL), staticToken("t1"), nil, testLog)

	require.NoError(t, s.Add(context.Background(), 42, 2))
	snapshot := s.Items()

	srv.Close()
	require.Error(t, s.Fetch(context.Background()))
	require.Equal(t, snapshot, s.Items())
}

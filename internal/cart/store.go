package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/internal/identity"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	pkgerrors "github.com/Bhupesh-S/SmartShop-AI/pkg/errors"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Item is one client-visible cart line. Quantity is always >= 1; a requested
// quantity <= 0 means "remove".
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Category  string
}

// Snapshot is the complete server-returned cart state. Item order is
// server-defined and treated as display order; TotalPrice is authoritative
// from the server, never derived locally.
type Snapshot struct {
	Items      []Item
	TotalPrice decimal.Decimal
}

// Count sums the quantities across all items.
func (s Snapshot) Count() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

type cartAPI interface {
	AddToCart(ctx context.Context, username, productID string, quantity int) (*api.CartResponse, error)
	RemoveFromCart(ctx context.Context, username, productID string) (*api.CartResponse, error)
	UpdateCartQuantity(ctx context.Context, username, productID string, quantity int) (*api.CartResponse, error)
	FetchCart(ctx context.Context, username string) (*api.CartResponse, error)
}

// Store owns the client-visible cart exclusively. Every mutation follows the
// same pattern: validate, issue exactly one network call, replace the whole
// snapshot with the server's response, and on error leave the previous
// snapshot untouched.
//
// Ordering: mutating calls are serialized so their responses apply in issue
// order. Every request is tagged with a monotonic sequence and the identity
// epoch active at issue time; a response is applied only when its epoch is
// still current and its sequence is >= the highest applied sequence. A
// response that loses that race is discarded, never merged.
type Store struct {
	client  cartAPI
	logg    *logger.Logger
	metrics *metrics.RequestMetrics

	// mutationMu serializes mutating round trips per store. Fetches bypass
	// it and rely on the sequence gate alone.
	mutationMu sync.Mutex

	mu       sync.Mutex
	snapshot Snapshot
	epoch    uint64
	issued   uint64
	applied  uint64
}

// StoreParams wires the cart store dependencies. Metrics may be nil.
type StoreParams struct {
	Client  cartAPI
	Logger  *logger.Logger
	Metrics *metrics.RequestMetrics
}

// NewStore builds an empty cart store.
func NewStore(params StoreParams) (*Store, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("cart api client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		client:  params.Client,
		logg:    params.Logger,
		metrics: params.Metrics,
		snapshot: Snapshot{
			TotalPrice: decimal.Zero,
		},
	}, nil
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snapshot)
}

// Count reports the total unit count, recomputed from the current snapshot
// on every read.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Count()
}

// Total reports the server-authoritative total price.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.TotalPrice
}

// AddItem adds quantity units of a product. A zero quantity defaults to one
// unit; a negative quantity is a validation error.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int, id identity.Identity) (Snapshot, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if productID == "" {
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key, err := s.identityKey(id)
	if err != nil {
		return s.Snapshot(), err
	}

	return s.mutate(ctx, "cart.add", func(ctx context.Context) (*api.CartResponse, error) {
		return s.client.AddToCart(ctx, key, productID, quantity)
	})
}

// RemoveItem removes a product line entirely.
func (s *Store) RemoveItem(ctx context.Context, productID string, id identity.Identity) (Snapshot, error) {
	if productID == "" {
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key, err := s.identityKey(id)
	if err != nil {
		return s.Snapshot(), err
	}

	return s.mutate(ctx, "cart.remove", func(ctx context.Context) (*api.CartResponse, error) {
		return s.client.RemoveFromCart(ctx, key, productID)
	})
}

// UpdateQuantity sets the absolute quantity for a product line. A quantity
// <= 0 is defined to be equivalent to RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, newQuantity int, id identity.Identity) (Snapshot, error) {
	if newQuantity <= 0 {
		return s.RemoveItem(ctx, productID, id)
	}
	if productID == "" {
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key, err := s.identityKey(id)
	if err != nil {
		return s.Snapshot(), err
	}

	return s.mutate(ctx, "cart.update", func(ctx context.Context) (*api.CartResponse, error) {
		return s.client.UpdateCartQuantity(ctx, key, productID, newQuantity)
	})
}

// FetchCart reconciles the local snapshot with the server cart, used after
// login and on mount. Fetches are not serialized against mutations but can
// never overwrite a snapshot produced by a more recently issued request.
func (s *Store) FetchCart(ctx context.Context, id identity.Identity) (Snapshot, error) {
	key, err := s.identityKey(id)
	if err != nil {
		return s.Snapshot(), err
	}

	seq, epoch := s.nextRequest()
	start := time.Now()
	resp, err := s.client.FetchCart(ctx, key)
	s.metrics.ObserveDuration("cart.fetch", time.Since(start))
	if err != nil {
		s.metrics.IncFailure("cart.fetch")
		return s.Snapshot(), err
	}
	s.metrics.IncSuccess("cart.fetch")

	return s.apply(ctx, "cart.fetch", seq, epoch, resp)
}

// ClearCart resets the local snapshot without a server call, intended for
// post-checkout cleanup and logout. Server-side clearing is not guaranteed.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.applied = s.issued
	s.snapshot = Snapshot{TotalPrice: decimal.Zero}
}

// Activate switches the store to a new identity epoch. Responses to requests
// issued under a previous epoch are discarded when they eventually arrive.
func (s *Store) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// Fetch adapts FetchCart to the resolver's CartSyncer surface.
func (s *Store) Fetch(ctx context.Context, id identity.Identity) error {
	_, err := s.FetchCart(ctx, id)
	return err
}

// ClearLocal adapts ClearCart to the resolver's CartSyncer surface.
func (s *Store) ClearLocal() {
	s.ClearCart()
}

// mutate runs one serialized mutating round trip.
func (s *Store) mutate(ctx context.Context, op string, call func(ctx context.Context) (*api.CartResponse, error)) (Snapshot, error) {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	seq, epoch := s.nextRequest()
	start := time.Now()
	resp, err := call(ctx)
	s.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(op)
		return s.Snapshot(), err
	}
	s.metrics.IncSuccess(op)

	return s.apply(ctx, op, seq, epoch, resp)
}

// apply installs a server snapshot if the request that produced it is still
// current. A stale response is discarded and reported as such.
func (s *Store) apply(ctx context.Context, op string, seq, epoch uint64, resp *api.CartResponse) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || seq < s.applied {
		s.metrics.IncStaleDiscard(op)
		s.logg.Debug(s.logg.WithOperation(ctx, op), "discarding stale cart response")
		return copySnapshot(s.snapshot), pkgerrors.New(pkgerrors.CodeStale, "cart response superseded, not applied")
	}

	s.applied = seq
	s.snapshot = fromResponse(resp)
	return copySnapshot(s.snapshot), nil
}

func (s *Store) nextRequest() (seq, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued, s.epoch
}

func (s *Store) identityKey(id identity.Identity) (string, error) {
	if id.Key() == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "identity required")
	}
	return id.Key(), nil
}

func fromResponse(resp *api.CartResponse) Snapshot {
	if resp == nil {
		return Snapshot{TotalPrice: decimal.Zero}
	}
	items := make([]Item, 0, len(resp.Cart))
	for _, line := range resp.Cart {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Category:  line.Category,
		})
	}
	return Snapshot{Items: items, TotalPrice: resp.TotalPrice}
}

func copySnapshot(snap Snapshot) Snapshot {
	items := make([]Item, len(snap.Items))
	copy(items, snap.Items)
	return Snapshot{Items: items, TotalPrice: snap.TotalPrice}
}

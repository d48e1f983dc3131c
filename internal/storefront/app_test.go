package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/internal/catalog"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/config"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// fakeBackend is an in-memory rendition of the storefront API: per-shopper
// carts with server-computed totals, a static catalog, and an event sink.
type fakeBackend struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	names  map[string]string
	carts  map[string]map[string]int
	events []api.Event
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		prices: map[string]decimal.Decimal{
			"p1": decimal.NewFromInt(10),
			"p2": decimal.NewFromInt(25),
		},
		names: map[string]string{"p1": "Trail Shoes", "p2": "Rain Jacket"},
		carts: map[string]map[string]int{},
	}
}

func (b *fakeBackend) snapshot(username string) api.CartResponse {
	cart := b.carts[username]
	resp := api.CartResponse{Cart: []api.CartItem{}, TotalPrice: decimal.Zero}
	for _, id := range []string{"p1", "p2"} {
		qty, ok := cart[id]
		if !ok || qty == 0 {
			continue
		}
		resp.Cart = append(resp.Cart, api.CartItem{
			ProductID: id,
			Name:      b.names[id],
			Price:     b.prices[id],
			Quantity:  qty,
		})
		resp.TotalPrice = resp.TotalPrice.Add(b.prices[id].Mul(decimal.NewFromInt(int64(qty))))
	}
	return resp
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]api.Product{
			{ID: "p1", Name: "Trail Shoes", Description: "grippy soles", Price: decimal.NewFromInt(10), Category: "Footwear"},
			{ID: "p2", Name: "Rain Jacket", Description: "waterproof shell", Price: decimal.NewFromInt(25), Category: "Outerwear"},
		})
	})
	r.Post("/cart/add", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username  string `json:"username"`
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.carts[body.Username] == nil {
			b.carts[body.Username] = map[string]int{}
		}
		b.carts[body.Username][body.ProductID] += body.Quantity
		json.NewEncoder(w).Encode(b.snapshot(body.Username))
	})
	r.Post("/cart/update", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username  string `json:"username"`
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.carts[body.Username] == nil {
			b.carts[body.Username] = map[string]int{}
		}
		b.carts[body.Username][body.ProductID] = body.Quantity
		json.NewEncoder(w).Encode(b.snapshot(body.Username))
	})
	r.Post("/cart/remove", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Username  string `json:"username"`
			ProductID string `json:"productId"`
		}
		json.NewDecoder(req.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.carts[body.Username], body.ProductID)
		json.NewEncoder(w).Encode(b.snapshot(body.Username))
	})
	r.Get("/cart/{username}", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.snapshot(chi.URLParam(req, "username")))
	})
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body api.LoginRequest
		json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(api.LoginResponse{Username: body.Username, Email: body.Username + "@example.com"})
	})
	r.Post("/events", func(w http.ResponseWriter, req *http.Request) {
		var event api.Event
		json.NewDecoder(req.Body).Decode(&event)
		b.mu.Lock()
		b.events = append(b.events, event)
		b.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
	r.Post("/receipt", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"downloadLink": "/receipts/r-1.pdf"})
	})
	return r
}

func (b *fakeBackend) eventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, event := range b.events {
		names = append(names, event.Name)
	}
	return names
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()

	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	cfg := &config.Config{
		API:       config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
		State:     config.StateConfig{Path: filepath.Join(t.TempDir(), "state.db")},
		Chat:      config.ChatConfig{RevealInterval: time.Millisecond},
		Analytics: config.AnalyticsConfig{BufferSize: 16, CloseTimeout: time.Second},
	}
	app, err := New(context.Background(), Params{Config: cfg, Logger: logger.New(logger.Options{Level: zerolog.ErrorLevel})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestAppStartsWithAnonymousIdentity(t *testing.T) {
	app := newTestApp(t, newFakeBackend())

	id := app.Identity.CurrentIdentity()
	if id.IsAuthenticated() {
		t.Fatal("expected anonymous identity at startup")
	}
	if !strings.HasPrefix(id.Key(), "sess-") {
		t.Fatalf("expected resolved session id, got %q", id.Key())
	}
}

func TestAnonymousCartFlow(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	ctx := context.Background()

	snap, err := app.AddToCart(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if snap.Count() != 2 {
		t.Fatalf("expected count 2, got %d", snap.Count())
	}
	if !snap.TotalPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected total 20, got %s", snap.TotalPrice)
	}

	snap, err = app.UpdateQuantity(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if snap.Count() != 0 {
		t.Fatalf("expected empty cart after zero update, got %d", snap.Count())
	}
}

func TestLoginReplacesCartWithAccountState(t *testing.T) {
	backend := newFakeBackend()
	backend.carts["ishaan"] = map[string]int{"p2": 1}
	app := newTestApp(t, backend)
	ctx := context.Background()

	if _, err := app.AddToCart(ctx, "p1", 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	id, err := app.Identity.Login(ctx, "ishaan", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !id.IsAuthenticated() || id.Key() != "ishaan" {
		t.Fatalf("unexpected identity after login: %+v", id)
	}
	if app.Cart.Count() != 1 {
		t.Fatalf("expected account cart count 1 after login, got %d", app.Cart.Count())
	}
	if got := app.Cart.Snapshot().Items[0].ProductID; got != "p2" {
		t.Fatalf("expected account cart item p2, got %s", got)
	}
}

func TestLogoutResetsIdentityAndCart(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend)
	ctx := context.Background()

	if _, err := app.Identity.Login(ctx, "ishaan", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := app.AddToCart(ctx, "p2", 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	id := app.Identity.Logout(ctx)
	if id.IsAuthenticated() {
		t.Fatal("expected anonymous identity after logout")
	}
	if app.Cart.Count() != 0 {
		t.Fatalf("expected empty cart after logout, got %d", app.Cart.Count())
	}
}

func TestSearchFiltersCatalogAndEmitsEvent(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend)
	ctx := context.Background()

	if err := app.LoadCatalog(ctx); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	results := app.Search(catalog.Criteria{Category: catalog.CategoryAll, SearchTerm: "waterproof"})
	if len(results) != 1 || results[0].ID != "p2" {
		t.Fatalf("expected [p2], got %+v", results)
	}

	// Search events are delivered asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, name := range backend.eventNames() {
			if name == "search" {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("search event never delivered, saw %v", backend.eventNames())
}

func TestViewProductMissIsNotAnError(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	if err := app.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if _, ok := app.ViewProduct("nope"); ok {
		t.Fatal("expected miss for unknown product")
	}
	entry, ok := app.ViewProduct("p1")
	if !ok || entry.Name != "Trail Shoes" {
		t.Fatalf("expected p1 hit, got ok=%v entry=%+v", ok, entry)
	}
}

func TestCheckoutClearsCart(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	ctx := context.Background()

	if _, err := app.Checkout(ctx); err == nil {
		t.Fatal("expected error for empty cart checkout")
	}

	if _, err := app.AddToCart(ctx, "p1", 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	link, err := app.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if link != "/receipts/r-1.pdf" {
		t.Fatalf("unexpected receipt link %q", link)
	}
	if app.Cart.Count() != 0 {
		t.Fatalf("expected cleared cart after checkout, got %d", app.Cart.Count())
	}
}

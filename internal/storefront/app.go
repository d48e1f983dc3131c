package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/internal/analytics"
	"github.com/Bhupesh-S/SmartShop-AI/internal/cart"
	"github.com/Bhupesh-S/SmartShop-AI/internal/catalog"
	"github.com/Bhupesh-S/SmartShop-AI/internal/chat"
	"github.com/Bhupesh-S/SmartShop-AI/internal/identity"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/config"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/localstate"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the storefront client composition root: an explicit store object
// with a defined initialization and teardown lifecycle, injected into
// whatever surface renders it. Nothing here is an ambient singleton.
type App struct {
	Identity  *identity.Resolver
	Cart      *cart.Store
	Assistant *chat.Assistant
	Emitter   *analytics.Emitter
	API       *api.Client

	logg    *logger.Logger
	state   *localstate.Store
	catalog *catalog.Catalog
}

// Params wires the app dependencies. Registry may be nil to disable metrics.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry prometheus.Registerer
}

// New boots the storefront client: local state, API client, cart store,
// identity resolver (with a resolved anonymous session), analytics emitter,
// and chat assistant.
func New(ctx context.Context, params Params) (*App, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := params.Config
	logg := params.Logger

	state, err := localstate.Open(ctx, cfg.State.Path)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		_ = state.Close()
		return nil, err
	}

	requestMetrics := metrics.NewRequestMetrics(params.Registry)

	cartStore, err := cart.NewStore(cart.StoreParams{
		Client:  client,
		Logger:  logg,
		Metrics: requestMetrics,
	})
	if err != nil {
		_ = state.Close()
		return nil, err
	}

	resolver, err := identity.NewResolver(identity.ResolverParams{
		Client: client,
		State:  state,
		Carts:  cartStore,
		Logger: logg,
	})
	if err != nil {
		_ = state.Close()
		return nil, err
	}
	if _, err := resolver.EnsureAnonymousID(ctx); err != nil {
		_ = state.Close()
		return nil, err
	}

	emitter, err := analytics.NewEmitter(analytics.EmitterParams{
		Publisher:    client,
		Identity:     resolver,
		Logger:       logg,
		Metrics:      requestMetrics,
		BufferSize:   cfg.Analytics.BufferSize,
		CloseTimeout: cfg.Analytics.CloseTimeout,
	})
	if err != nil {
		_ = state.Close()
		return nil, err
	}

	assistant, err := chat.NewAssistant(chat.AssistantParams{
		Client:         client,
		Logger:         logg,
		RevealInterval: cfg.Chat.RevealInterval,
	})
	if err != nil {
		emitter.Close()
		_ = state.Close()
		return nil, err
	}

	return &App{
		Identity:  resolver,
		Cart:      cartStore,
		Assistant: assistant,
		Emitter:   emitter,
		API:       client,
		logg:      logg,
		state:     state,
	}, nil
}

// Close tears the app down: drains analytics and releases local state.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.Emitter.Close()
	if err := a.state.Close(); err != nil {
		a.logg.Warn(context.Background(), "closing local state failed")
	}
}

// LoadCatalog fetches the product snapshot from the API and caches it for
// the session.
func (a *App) LoadCatalog(ctx context.Context) error {
	loaded, err := catalog.Load(ctx, a.API)
	if err != nil {
		return err
	}
	a.catalog = loaded
	return nil
}

// Catalog returns the cached snapshot, which may be nil before LoadCatalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Search filters the catalog for the criteria and reports a search event.
func (a *App) Search(criteria catalog.Criteria) []catalog.Entry {
	results := catalog.ApplyFilter(a.catalog.Entries(), criteria)
	a.Emitter.Emit(analytics.EventSearch, map[string]any{
		"term":     criteria.SearchTerm,
		"category": criteria.Category,
		"results":  len(results),
	})
	return results
}

// BrowseGrouped filters and groups the catalog for display.
func (a *App) BrowseGrouped(criteria catalog.Criteria) []catalog.CategoryGroup {
	return catalog.GroupByCategory(catalog.ApplyFilter(a.catalog.Entries(), criteria))
}

// ViewProduct resolves one entry and reports a view event. A miss renders a
// not-found state; it is not an error.
func (a *App) ViewProduct(productID string) (catalog.Entry, bool) {
	entry, ok := a.catalog.Lookup(productID)
	if ok {
		a.Emitter.Emit(analytics.EventView, map[string]any{"productId": productID})
	}
	return entry, ok
}

// RecordDwell reports how long the shopper stayed on a product page. The
// rendering layer calls this when the view is torn down.
func (a *App) RecordDwell(productID string, dwell time.Duration) {
	a.Emitter.Emit(analytics.EventDwellTime, map[string]any{
		"productId": productID,
		"ms":        dwell.Milliseconds(),
	})
}

// AddToCart adds quantity units for the current identity and reports an
// add-to-cart event on success.
func (a *App) AddToCart(ctx context.Context, productID string, quantity int) (cart.Snapshot, error) {
	snap, err := a.Cart.AddItem(ctx, productID, quantity, a.Identity.CurrentIdentity())
	if err == nil {
		a.Emitter.Emit(analytics.EventAddToCart, map[string]any{
			"productId": productID,
			"quantity":  quantity,
		})
	}
	return snap, err
}

// RemoveFromCart removes a product line for the current identity.
func (a *App) RemoveFromCart(ctx context.Context, productID string) (cart.Snapshot, error) {
	return a.Cart.RemoveItem(ctx, productID, a.Identity.CurrentIdentity())
}

// UpdateQuantity sets the absolute quantity for a line; <= 0 removes it.
func (a *App) UpdateQuantity(ctx context.Context, productID string, quantity int) (cart.Snapshot, error) {
	return a.Cart.UpdateQuantity(ctx, productID, quantity, a.Identity.CurrentIdentity())
}

// RefreshCart reconciles the local snapshot with the server.
func (a *App) RefreshCart(ctx context.Context) (cart.Snapshot, error) {
	return a.Cart.FetchCart(ctx, a.Identity.CurrentIdentity())
}

// Checkout renders a receipt for the current cart and clears it locally.
// Server-side clearing is a known limitation of the cart API.
func (a *App) Checkout(ctx context.Context) (string, error) {
	snap := a.Cart.Snapshot()
	if snap.Count() == 0 {
		return "", fmt.Errorf("cart is empty")
	}

	details := map[string]any{
		"shopper":    a.Identity.CurrentIdentity().Key(),
		"totalPrice": snap.TotalPrice.String(),
		"items":      snap.Count(),
	}
	for _, item := range snap.Items {
		details[item.ProductID] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
	}

	link, err := a.API.GenerateReceipt(ctx, details)
	if err != nil {
		return "", err
	}
	a.Cart.ClearCart()
	return link, nil
}

// CartSummary asks the assistant backend for a promotional pitch covering
// the current cart contents.
func (a *App) CartSummary(ctx context.Context) (string, error) {
	snap := a.Cart.Snapshot()
	names := make([]string, 0, len(snap.Items))
	for _, item := range snap.Items {
		names = append(names, item.Name)
	}
	return a.API.GenerateCartSummary(ctx, names)
}

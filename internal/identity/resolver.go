package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	pkgerrors "github.com/Bhupesh-S/SmartShop-AI/pkg/errors"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/localstate"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/google/uuid"
)

// SessionKey is the local storage key holding the anonymous session id.
const SessionKey = "anon_session_id"

type authClient interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.SignupResponse, error)
}

type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CartSyncer is the slice of the cart store the resolver drives on identity
// transitions. The resolver never touches the snapshot itself.
type CartSyncer interface {
	// Activate starts a new cart epoch, invalidating any in-flight responses
	// issued under the previous identity.
	Activate()
	// Fetch reconciles the local snapshot with the server cart for id.
	Fetch(ctx context.Context, id Identity) error
	// ClearLocal resets the local snapshot without a server call.
	ClearLocal()
}

// Resolver owns the current shopper identity and its transitions.
//
// The anonymous session id is a client-generated value the server trusts for
// cart ownership with no cryptographic binding. That is an inherited trust
// boundary: hardening it requires a server-issued session token.
type Resolver struct {
	client authClient
	state  sessionStore
	carts  CartSyncer
	logg   *logger.Logger

	mu      sync.Mutex
	current Identity
}

// ResolverParams wires the resolver dependencies.
type ResolverParams struct {
	Client authClient
	State  sessionStore
	Carts  CartSyncer
	Logger *logger.Logger
}

// NewResolver builds a resolver starting from a fresh anonymous identity.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("auth client required")
	}
	if params.State == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart syncer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Resolver{
		client:  params.Client,
		state:   params.State,
		carts:   params.Carts,
		logg:    params.Logger,
		current: Anonymous(""),
	}, nil
}

// CurrentIdentity returns the active identity.
func (r *Resolver) CurrentIdentity() Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// EnsureAnonymousID returns the persisted anonymous session id, generating
// and persisting one when the shopper is anonymous and has none. Returns the
// empty string for an authenticated shopper.
func (r *Resolver) EnsureAnonymousID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.IsAuthenticated() {
		return "", nil
	}
	if r.current.SessionID != "" {
		return r.current.SessionID, nil
	}

	stored, err := r.state.Get(ctx, SessionKey)
	if err == nil && stored != "" {
		r.current = Anonymous(stored)
		return stored, nil
	}
	if err != nil && !errors.Is(err, localstate.ErrNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read anonymous session")
	}

	generated := newSessionID()
	if err := r.state.Set(ctx, SessionKey, generated); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist anonymous session")
	}
	r.current = Anonymous(generated)
	return generated, nil
}

// Login authenticates the shopper. On success the identity becomes
// Authenticated, the anonymous session marker is cleared, and the cart store
// is re-pointed and re-fetched for the new identity. On failure the identity
// is unchanged and the server's message is surfaced verbatim.
func (r *Resolver) Login(ctx context.Context, username, password string) (Identity, error) {
	if err := validateLogin(username, password); err != nil {
		return r.CurrentIdentity(), err
	}

	resp, err := r.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return r.CurrentIdentity(), err
	}

	authed := Authenticated(resp.Username, resp.Email, resp.Username)

	r.mu.Lock()
	r.current = authed
	r.mu.Unlock()

	if err := r.state.Delete(ctx, SessionKey); err != nil {
		r.logg.Warn(r.logg.WithShopper(ctx, authed.Key()), "failed to clear anonymous session marker")
	}

	r.carts.Activate()
	if err := r.carts.Fetch(ctx, authed); err != nil {
		// Reconciliation failure leaves the cart at its last-known-good
		// state; the login itself still succeeded.
		r.logg.Error(r.logg.WithShopper(ctx, authed.Key()), "cart re-fetch after login failed", err)
	}

	return authed, nil
}

// Signup registers a new account. Success does not log the shopper in.
func (r *Resolver) Signup(ctx context.Context, name, email, username, password string) (string, error) {
	if err := validateSignup(name, email, username, password); err != nil {
		return "", err
	}

	resp, err := r.client.Signup(ctx, api.SignupRequest{
		Name:     name,
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout clears the authenticated identity, returns to a fresh anonymous
// one, and resets the local cart. No server call is made.
func (r *Resolver) Logout(ctx context.Context) Identity {
	fresh := Anonymous(newSessionID())

	r.mu.Lock()
	r.current = fresh
	r.mu.Unlock()

	if err := r.state.Set(ctx, SessionKey, fresh.SessionID); err != nil {
		r.logg.Warn(ctx, "failed to persist fresh anonymous session")
	}

	r.carts.Activate()
	r.carts.ClearLocal()

	return fresh
}

// newSessionID builds a statistically unique session id. It does not need to
// be cryptographically strong; it only keys a per-browser cart.
func newSessionID() string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("sess-%d-%s", time.Now().UnixMilli(), suffix)
}

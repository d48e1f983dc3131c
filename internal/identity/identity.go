package identity

// Kind discriminates the two shopper principals.
type Kind string

const (
	KindAnonymous     Kind = "anonymous"
	KindAuthenticated Kind = "authenticated"
)

// Identity is the anonymous-or-authenticated principal a cart is associated
// with. At most one identity is active at a time; the zero value is an
// unresolved anonymous shopper.
type Identity struct {
	Kind        Kind
	SessionID   string
	Username    string
	Email       string
	DisplayName string
}

// Anonymous builds an anonymous identity for the given session id.
func Anonymous(sessionID string) Identity {
	return Identity{Kind: KindAnonymous, SessionID: sessionID}
}

// Authenticated builds an authenticated identity.
func Authenticated(username, email, displayName string) Identity {
	if displayName == "" {
		displayName = username
	}
	return Identity{
		Kind:        KindAuthenticated,
		Username:    username,
		Email:       email,
		DisplayName: displayName,
	}
}

// IsAuthenticated reports whether a login has succeeded for this identity.
func (id Identity) IsAuthenticated() bool {
	return id.Kind == KindAuthenticated
}

// Key returns the correlation id the server and analytics pipeline key on:
// the username when authenticated, otherwise the anonymous session id. An
// empty key means the identity is unresolved and cannot own a cart.
func (id Identity) Key() string {
	if id.IsAuthenticated() {
		return id.Username
	}
	return id.SessionID
}

package api

import (
	"context"
	"fmt"
	"net/url"
)

// LoginRequest carries the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse mirrors the server's successful login payload.
type LoginResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignupRequest carries the registration payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupResponse carries the server's confirmation message.
type SignupResponse struct {
	Message string `json:"message"`
}

// UserDetails mirrors the profile returned for an authenticated username.
type UserDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Login authenticates the shopper. A non-2xx response surfaces the server's
// detail message verbatim.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.postJSON(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new shopper account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	if err := c.postJSON(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserDetails fetches the profile for a username.
func (c *Client) GetUserDetails(ctx context.Context, username string) (*UserDetails, error) {
	var resp UserDetails
	path := fmt.Sprintf("/auth/user/%s", url.PathEscape(username))
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

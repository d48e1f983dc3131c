package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// CartItem is the wire shape of one cart line.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
}

// CartResponse is the whole-cart snapshot every cart endpoint returns. The
// server is authoritative for both contents and total; the client never
// derives totals from deltas.
type CartResponse struct {
	Cart       []CartItem      `json:"cart"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type cartMutationRequest struct {
	Username  string `json:"username"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

// AddToCart adds quantity units of a product to the identity's server cart.
func (c *Client) AddToCart(ctx context.Context, username, productID string, quantity int) (*CartResponse, error) {
	var resp CartResponse
	req := cartMutationRequest{Username: username, ProductID: productID, Quantity: quantity}
	if err := c.postJSON(ctx, "/cart/add", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveFromCart removes a product line entirely.
func (c *Client) RemoveFromCart(ctx context.Context, username, productID string) (*CartResponse, error) {
	var resp CartResponse
	req := cartMutationRequest{Username: username, ProductID: productID}
	if err := c.postJSON(ctx, "/cart/remove", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCartQuantity sets the absolute quantity for a product line.
func (c *Client) UpdateCartQuantity(ctx context.Context, username, productID string, quantity int) (*CartResponse, error) {
	var resp CartResponse
	req := cartMutationRequest{Username: username, ProductID: productID, Quantity: quantity}
	if err := c.postJSON(ctx, "/cart/update", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchCart reads the current server cart for the identity.
func (c *Client) FetchCart(ctx context.Context, username string) (*CartResponse, error) {
	var resp CartResponse
	path := fmt.Sprintf("/cart/%s", url.PathEscape(username))
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CartSummaryRequest lists the item names a promotional summary is wanted for.
type CartSummaryRequest struct {
	CartItems []string `json:"cartItems"`
}

// GenerateCartSummary asks the assistant backend for a short sales pitch
// covering the cart contents.
func (c *Client) GenerateCartSummary(ctx context.Context, items []string) (string, error) {
	var resp struct {
		SummaryText string `json:"summaryText"`
	}
	if err := c.postJSON(ctx, "/cart/summary", CartSummaryRequest{CartItems: items}, &resp); err != nil {
		return "", err
	}
	return resp.SummaryText, nil
}

// GenerateReceipt renders a receipt for the order and returns its download link.
func (c *Client) GenerateReceipt(ctx context.Context, orderDetails map[string]any) (string, error) {
	req := struct {
		OrderDetails map[string]any `json:"orderDetails"`
	}{OrderDetails: orderDetails}

	var resp struct {
		DownloadLink string `json:"downloadLink"`
	}
	if err := c.postJSON(ctx, "/receipt", req, &resp); err != nil {
		return "", err
	}
	return resp.DownloadLink, nil
}

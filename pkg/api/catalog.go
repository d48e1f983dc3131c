package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	pkgerrors "github.com/Bhupesh-S/SmartShop-AI/pkg/errors"
	"github.com/shopspring/decimal"
)

// Review is one shopper review attached to a product.
type Review struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Product is the wire shape of a catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Reviews     []Review        `json:"reviews,omitempty"`
}

// FetchProducts retrieves the full catalog snapshot.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Recommendation is a lightweight product reference returned by the
// recommendations endpoint.
type Recommendation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchByImage uploads an image and returns the closest product match. The
// matching itself is an opaque server-side concern.
func (c *Client) SearchByImage(ctx context.Context, filename string, image io.Reader) (*Product, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload")
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read image")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/visual-search"), &body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		Match *Product `json:"match"`
		Error string   `json:"error"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || resp.Match == nil {
		message := resp.Error
		if message == "" {
			message = "no product match found"
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return resp.Match, nil
}

// Recommendations returns products similar to the given product id.
func (c *Client) Recommendations(ctx context.Context, productID string) ([]Recommendation, error) {
	query := url.Values{}
	query.Set("product_id", productID)

	var resp struct {
		RecommendedProducts []Recommendation `json:"recommended_products"`
	}
	if err := c.getJSON(ctx, "/recommendations", query, &resp); err != nil {
		return nil, err
	}
	return resp.RecommendedProducts, nil
}

package products

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-client/pkg/transport"
)

// Client reads the product catalog.
type Client struct {
	http *transport.Client
}

func NewClient(http *transport.Client) *Client {
	return &Client{http: http}
}

func (c *Client) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.http.Get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (Product, error) {
	var out Product
	err := c.http.Get(ctx, fmt.Sprintf("/products/%d", id), &out)
	return out, err
}

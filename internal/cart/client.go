package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-client/pkg/transport"
)

// Client talks to the cart service.
type Client struct {
	http *transport.Client
}

func NewClient(http *transport.Client) *Client {
	return &Client{http: http}
}

func (c *Client) ActiveByUser(ctx context.Context, userID int64) (Response, error) {
	var out Response
	err := c.http.Get(ctx, fmt.Sprintf("/cart/user/%d", userID), &out)
	return out, err
}

func (c *Client) Add(ctx context.Context, req AddRequest) (Response, error) {
	var out Response
	err := c.http.Post(ctx, "/cart", req, &out)
	return out, err
}

func (c *Client) ReplaceItems(ctx context.Context, cartID int64, items []int64) (Response, error) {
	if items == nil {
		items = []int64{}
	}
	var out Response
	err := c.http.Put(ctx, fmt.Sprintf("/cart/%d/items", cartID), ReplaceItemsRequest{Items: items}, &out)
	return out, err
}

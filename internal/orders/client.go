package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/transport"
)

// Client talks to the order service. Its transport must carry the session
// token source.
type Client struct {
	http *transport.Client
}

func NewClient(http *transport.Client) *Client {
	return &Client{http: http}
}

// Checkout submits an order and returns the undecoded answer.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	raw, err := c.http.DoRaw(ctx, http.MethodPost, "/orders/checkout", req)
	if err != nil {
		return nil, err
	}
	out := CheckoutResponse{}
	// An accepted order may come back without a body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, "decode checkout response")
	}
	return out, nil
}

package products

import (
	"context"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const quoteConcurrency = 4

type productGetter interface {
	Get(ctx context.Context, id int64) (Product, error)
}

// QuoteItems fetches every distinct product in items and prices the cart.
// Any failed fetch fails the whole quote.
func QuoteItems(ctx context.Context, getter productGetter, items []int64) (Quote, error) {
	lines := cart.Lines(items)
	fetched := make([]Product, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)
	for i, line := range lines {
		g.Go(func() error {
			p, err := getter.Get(gctx, line.ProductID)
			if err != nil {
				return err
			}
			fetched[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	quote := Quote{Lines: make([]QuoteLine, 0, len(lines)), Total: decimal.Zero}
	for i, line := range lines {
		subtotal := fetched[i].Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		quote.Lines = append(quote.Lines, QuoteLine{
			Product:  fetched[i],
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		quote.Total = quote.Total.Add(subtotal)
	}
	return quote, nil
}

// Quote prices items against the catalog.
func (c *Client) Quote(ctx context.Context, items []int64) (Quote, error) {
	return QuoteItems(ctx, c, items)
}

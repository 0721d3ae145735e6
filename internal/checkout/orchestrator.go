package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/internal/orders"
	"github.com/angelmondragon/storefront-client/internal/products"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/shopspring/decimal"
)

type orderSubmitter interface {
	Checkout(ctx context.Context, req orders.CheckoutRequest) (orders.CheckoutResponse, error)
}

type identityReader interface {
	GetIdentity(ctx context.Context) (int64, bool)
}

type quoter interface {
	Quote(ctx context.Context, items []int64) (products.Quote, error)
}

// Input describes one checkout. A nil UserID means nobody is signed in.
type Input struct {
	UserID *int64
	Items  []int64
	Amount decimal.Decimal
	Method enums.PaymentMethod
}

// Orchestrator places orders for the current cart and clears it afterwards.
type Orchestrator struct {
	orders   orderSubmitter
	cart     cart.Cart
	identity identityReader
	quotes   quoter
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics
}

func NewOrchestrator(orderAPI orderSubmitter, c cart.Cart, identity identityReader, quotes quoter, logg *logger.Logger, m *metrics.OperationMetrics) *Orchestrator {
	return &Orchestrator{
		orders:   orderAPI,
		cart:     c,
		identity: identity,
		quotes:   quotes,
		logg:     logg,
		metrics:  m,
	}
}

// Checkout submits input to the order service. On success the cart is
// cleared; on failure it is left untouched and a retryable FETCH_FAILED is
// returned.
func (o *Orchestrator) Checkout(ctx context.Context, input Input) (Result, error) {
	started := time.Now()
	if input.UserID == nil || *input.UserID <= 0 {
		o.metrics.Observe("checkout.submit", started, string(pkgerrors.CodeAuthRequired))
		return Result{}, pkgerrors.New(pkgerrors.CodeAuthRequired, "sign in to check out")
	}
	if !input.Method.IsValid() {
		o.metrics.Observe("checkout.submit", started, string(pkgerrors.CodeValidation))
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]string{"paymentMethod": string(input.Method)})
	}
	ctx = o.logg.WithFields(o.logg.WithUserID(ctx, *input.UserID), map[string]any{
		"payment_method": input.Method,
		"units":          len(input.Items),
	})

	resp, err := o.orders.Checkout(ctx, orders.CheckoutRequest{
		UserID:        *input.UserID,
		ProductIDs:    append([]int64{}, input.Items...),
		Amount:        orders.AmountOf(input.Amount),
		PaymentMethod: input.Method,
	})
	if err != nil {
		o.logg.Error(ctx, "checkout.submit_failed", err)
		o.metrics.Observe("checkout.submit", started, string(pkgerrors.CodeFetchFailed))
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, "checkout failed")
	}

	result := Normalize(input.Method, resp)
	ctx = o.logg.WithField(ctx, "order_id", result.OrderID)
	o.clearCart(ctx)
	o.logg.Info(ctx, "checkout.order_placed")
	o.metrics.Observe("checkout.submit", started, "")
	return result, nil
}

// clearCart empties the consumed cart. A failed server clear falls back to a
// local reset.
func (o *Orchestrator) clearCart(ctx context.Context) {
	if o.cart == nil {
		return
	}
	if _, err := o.cart.Clear(ctx); err != nil {
		o.logg.Warn(ctx, "checkout.cart_clear_failed")
		o.cart.ResetItems(ctx)
	}
}

// CheckoutCart checks out the current cart of the signed-in shopper, priced
// against the catalog.
func (o *Orchestrator) CheckoutCart(ctx context.Context, method enums.PaymentMethod) (Result, error) {
	userID, ok := o.identity.GetIdentity(ctx)
	if !ok {
		return o.Checkout(ctx, Input{Method: method})
	}

	snapshot := o.cart.Snapshot(ctx)
	if snapshot.IsEmpty() {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote, err := o.quotes.Quote(ctx, snapshot.Items)
	if err != nil {
		o.logg.Error(ctx, "checkout.quote_failed", err)
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, "price cart")
	}
	return o.Checkout(ctx, Input{
		UserID: &userID,
		Items:  snapshot.Items,
		Amount: quote.Total,
		Method: method,
	})
}

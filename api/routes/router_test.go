package routes_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/internal/checkout"
	"github.com/angelmondragon/storefront-client/internal/orders"
	"github.com/angelmondragon/storefront-client/internal/products"
	"github.com/angelmondragon/storefront-client/internal/sandbox/sandboxtest"
	"github.com/angelmondragon/storefront-client/internal/session"
	"github.com/angelmondragon/storefront-client/internal/users"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/storage"
	"github.com/angelmondragon/storefront-client/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopper struct {
	bridge   *session.Bridge
	users    *users.Client
	carts    *cart.Client
	products *products.Client
	orders   *orders.Client
}

func newShopper(t *testing.T, baseURL string) shopper {
	t.Helper()
	bridge := session.NewBridge(storage.NewMemory(), logger.Nop())
	t.Cleanup(bridge.Close)
	api, err := transport.New(baseURL+"/api/v1", 5*time.Second, transport.WithTokenSource(bridge))
	require.NoError(t, err)
	return shopper{
		bridge:   bridge,
		users:    users.NewClient(api),
		carts:    cart.NewClient(api),
		products: products.NewClient(api),
		orders:   orders.NewClient(api),
	}
}

func signIn(t *testing.T, s shopper, email string) int64 {
	t.Helper()
	ctx := context.Background()
	_, err := s.users.Register(ctx, users.CreateUserInput{
		Name:       "Bruno",
		LastName:   "Lima",
		Email:      email,
		Address:    "Av. Central, 200",
		Zipcode:    "20000-000",
		NationalID: "98765432100",
		Phone:      "21988887777",
		State:      "rj",
		Password:   "correct-horse",
	})
	require.NoError(t, err)

	token, err := s.users.Login(ctx, users.LoginInput{Email: email, Password: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, s.bridge.SetIdentity(ctx, token))

	id, ok := s.bridge.GetIdentity(ctx)
	require.True(t, ok)
	return id
}

func TestCreditCardCheckoutClearsServerCart(t *testing.T) {
	ctx := context.Background()
	srv := sandboxtest.NewServer(t)
	s := newShopper(t, srv.URL)
	userID := signIn(t, s, "bruno@example.com")

	store := cart.NewStore(s.carts, s.bridge, logger.Nop(), nil)
	t.Cleanup(func() { _ = store.Close() })

	state, err := store.Refresh(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.ID)

	for _, id := range []int64{1, 1, 2} {
		state, err = store.AddItem(ctx, id)
		require.NoError(t, err)
	}
	require.NotNil(t, state.ID)
	assert.Equal(t, []int64{1, 1, 2}, state.Items)
	cartID := *state.ID

	quote, err := s.products.Quote(ctx, state.Items)
	require.NoError(t, err)
	assert.Equal(t, "59.80", quote.Total.StringFixed(2))

	orchestrator := checkout.NewOrchestrator(s.orders, store, s.bridge, s.products, logger.Nop(), nil)
	result, err := orchestrator.CheckoutCart(ctx, enums.PaymentMethodCreditCard)
	require.NoError(t, err)
	assert.NotEmpty(t, result.OrderID)
	assert.Equal(t, "PENDING", result.Status)
	assert.True(t, strings.HasPrefix(result.PaymentLink, sandboxtest.PaymentLinkBase+"/"))
	assert.Empty(t, result.PixImage)

	after := store.Snapshot(ctx)
	require.NotNil(t, after.ID)
	assert.Equal(t, cartID, *after.ID)
	assert.Empty(t, after.Items)

	remote, err := s.carts.ActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, remote.Items)

	product, err := s.products.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 48, product.Quantity)
}

func TestPixCheckoutReturnsEmbeddedImage(t *testing.T) {
	ctx := context.Background()
	srv := sandboxtest.NewServer(t)
	s := newShopper(t, srv.URL)
	userID := signIn(t, s, "pix@example.com")

	orchestrator := checkout.NewOrchestrator(s.orders, nil, s.bridge, s.products, logger.Nop(), nil)
	quote, err := s.products.Quote(ctx, []int64{3})
	require.NoError(t, err)

	result, err := orchestrator.Checkout(ctx, checkout.Input{
		UserID: &userID,
		Items:  []int64{3},
		Amount: quote.Total,
		Method: enums.PaymentMethodPix,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.PixImage, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(result.PixCode, "000201"))
	assert.True(t, strings.HasPrefix(result.PaymentLink, sandboxtest.PaymentLinkBase+"/"))
}

func TestCheckoutRejectedByServerLeavesCart(t *testing.T) {
	ctx := context.Background()
	srv := sandboxtest.NewServer(t)
	s := newShopper(t, srv.URL)
	userID := signIn(t, s, "stock@example.com")

	store := cart.NewStore(s.carts, s.bridge, logger.Nop(), nil)
	t.Cleanup(func() { _ = store.Close() })
	_, err := store.AddItem(ctx, 4)
	require.NoError(t, err)

	orchestrator := checkout.NewOrchestrator(s.orders, store, s.bridge, s.products, logger.Nop(), nil)
	_, err = orchestrator.CheckoutCart(ctx, enums.PaymentMethodDebitCard)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeFetchFailed), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, transport.StatusOf(err))

	remote, err := s.carts.ActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, remote.Items)
	assert.Equal(t, []int64{4}, store.Snapshot(ctx).Items)
}

func TestCheckoutRequiresBearerToken(t *testing.T) {
	srv := sandboxtest.NewServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/orders/checkout", "application/json", strings.NewReader(`{"userId":1,"productIds":[1],"amount":19.90,"paymentMethod":"PIX"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := sandboxtest.NewServer(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProductNotFound(t *testing.T) {
	srv := sandboxtest.NewServer(t)
	s := newShopper(t, srv.URL)

	_, err := s.products.Get(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, transport.StatusOf(err))
}

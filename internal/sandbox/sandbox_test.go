package sandbox

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/internal/orders"
	"github.com/angelmondragon/storefront-client/internal/users"
	"github.com/angelmondragon/storefront-client/pkg/auth"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/security"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client  *db.Client
	repo    *Repository
	users   *UserService
	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(ctx, config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Migrate(ctx, models.All()...))

	repo := NewRepository(client.DB())
	hasher := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "sandbox-test", ExpirationMinutes: 30}

	catalog := NewCatalogService(repo, logger.Nop())
	require.NoError(t, catalog.Seed(ctx))

	return fixture{
		client:  client,
		repo:    repo,
		users:   NewUserService(repo, hasher, jwtCfg),
		catalog: catalog,
		carts:   NewCartService(repo),
		orders:  NewOrderService(client, repo, NewPaymentIssuer("https://pay.test/i/"), logger.Nop()),
	}
}

func registerInput(email string) users.CreateUserInput {
	return users.CreateUserInput{
		Name:       "Ana",
		LastName:   "Souza",
		Email:      email,
		Address:    "Rua A, 10",
		Zipcode:    "01000-000",
		NationalID: "12345678900",
		Phone:      "11999990000",
		State:      "sp",
		Password:   "hunter2hunter2",
	}
}

func TestUserRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Register(ctx, registerInput("Ana@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "SP", user.State)
	assert.NotZero(t, user.ID)

	_, err = f.users.Register(ctx, registerInput("ana@example.com"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	token, err := f.users.Login(ctx, users.LoginInput{Email: "ANA@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	id, ok := auth.UserIDFromToken(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, id)

	_, err = f.users.Login(ctx, users.LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = f.users.Login(ctx, users.LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginTokenExpiresWithConfiguredTTL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.Register(ctx, registerInput("ttl@example.com"))
	require.NoError(t, err)

	f.users.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := f.users.Login(ctx, users.LoginInput{Email: "ttl@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(f.users.jwt, token)
	assert.Error(t, err)
}

func TestCatalogSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.catalog.Seed(ctx))

	products, err := f.catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(seedProducts()))

	_, err = f.catalog.Get(ctx, 999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCartLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty, err := f.carts.ActiveByUser(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, empty.ID)
	assert.Empty(t, empty.Items)

	created, err := f.carts.Add(ctx, cart.AddRequest{Items: []int64{3}, UserID: 7})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, []int64{3}, created.Items)

	appended, err := f.carts.Add(ctx, cart.AddRequest{ID: created.ID, Items: []int64{3, 1}, UserID: 7, Status: enums.CartStatusActive})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 3, 1}, appended.Items)

	active, err := f.carts.ActiveByUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, *created.ID, *active.ID)
	assert.Equal(t, []int64{3, 3, 1}, active.Items)

	cleared, err := f.carts.ReplaceItems(ctx, *created.ID, []int64{})
	require.NoError(t, err)
	assert.Equal(t, *created.ID, *cleared.ID)
	assert.Empty(t, cleared.Items)

	_, err = f.carts.ReplaceItems(ctx, 404, []int64{1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = f.carts.Add(ctx, cart.AddRequest{Items: []int64{0}, UserID: 7})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = f.carts.Add(ctx, cart.AddRequest{Items: []int64{1}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestOrderCheckoutCreditCard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	receipt, err := f.orders.Checkout(ctx, 7, orders.CheckoutRequest{
		UserID:        7,
		ProductIDs:    []int64{1, 1, 2},
		Amount:        json.Number("59.80"),
		PaymentMethod: enums.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)
	assert.Equal(t, string(enums.OrderStatusPending), receipt.Status)
	require.NotNil(t, receipt.PaymentLink)
	assert.True(t, strings.HasPrefix(*receipt.PaymentLink, "https://pay.test/i/"))
	assert.True(t, strings.HasSuffix(*receipt.PaymentLink, "/pay"))
	assert.Nil(t, receipt.PixQrCodeImage)

	product, err := f.catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 48, product.Quantity)
}

func TestOrderCheckoutPix(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	receipt, err := f.orders.Checkout(ctx, 7, orders.CheckoutRequest{
		ProductIDs:    []int64{2},
		Amount:        json.Number("20"),
		PaymentMethod: enums.PaymentMethodPix,
	})
	require.NoError(t, err)
	require.NotNil(t, receipt.PixCopyPaste)
	require.NotNil(t, receipt.PixQrCodeImage)
	assert.True(t, strings.HasPrefix(*receipt.PixCopyPaste, "000201"))
	assert.Contains(t, *receipt.PixCopyPaste, "540520.00")
	image, err := renderQR(*receipt.PixCopyPaste)
	require.NoError(t, err)
	assert.Equal(t, image, *receipt.PixQrCodeImage)
	assert.Equal(t, receipt.InvoiceURL, receipt.PaymentLink)
}

func TestOrderCheckoutRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name string
		auth int64
		req  orders.CheckoutRequest
		code pkgerrors.Code
	}{
		{"other user", 7, orders.CheckoutRequest{UserID: 8, ProductIDs: []int64{1}, Amount: "19.90", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeForbidden},
		{"bad method", 7, orders.CheckoutRequest{ProductIDs: []int64{1}, Amount: "19.90", PaymentMethod: "CASH"}, pkgerrors.CodeValidation},
		{"bad amount", 7, orders.CheckoutRequest{ProductIDs: []int64{1}, Amount: "abc", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeValidation},
		{"amount mismatch", 7, orders.CheckoutRequest{ProductIDs: []int64{1}, Amount: "19.00", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeValidation},
		{"out of stock", 7, orders.CheckoutRequest{ProductIDs: []int64{4}, Amount: "39.50", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeValidation},
		{"unknown product", 7, orders.CheckoutRequest{ProductIDs: []int64{99}, Amount: "1.00", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeValidation},
		{"empty", 7, orders.CheckoutRequest{ProductIDs: []int64{}, Amount: "0", PaymentMethod: enums.PaymentMethodPix}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Checkout(ctx, tc.auth, tc.req)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}

	product, err := f.catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, product.Quantity)
}

func TestPixPayloadChecksum(t *testing.T) {
	payload := pixPayload("abc123", decimal.RequireFromString("10.5"))
	require.True(t, len(payload) > 8)
	body, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	assert.True(t, strings.HasSuffix(body, "6304"))
	assert.Equal(t, fmt.Sprintf("%04X", crc16CCITT([]byte(body))), sum)
	assert.Equal(t, uint16(0x29B1), crc16CCITT([]byte("123456789")))
}

func TestRenderQREncodesPayload(t *testing.T) {
	payload := pixPayload("abc123", decimal.RequireFromString("10.5"))
	encoded, err := renderQR(payload)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrSize, cfg.Width)
	assert.Equal(t, qrSize, cfg.Height)

	want, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	require.NoError(t, err)
	assert.Equal(t, want, raw)

	other, err := renderQR(pixPayload("abc124", decimal.RequireFromString("10.5")))
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other)
}

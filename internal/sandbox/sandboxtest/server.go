// Package sandboxtest starts the sandbox collaborator services on an
// in-memory sqlite database for tests.
package sandboxtest

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-client/api/routes"
	"github.com/angelmondragon/storefront-client/internal/sandbox"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/angelmondragon/storefront-client/pkg/security"
	"github.com/prometheus/client_golang/prometheus"
)

const PaymentLinkBase = "https://pay.test/i"

// NewServer serves a seeded sandbox until the test ends. Each test gets its
// own database.
func NewServer(tb testing.TB) *httptest.Server {
	tb.Helper()
	ctx := context.Background()

	cfg := &config.Config{Sandbox: config.SandboxConfig{
		PaymentLinkBase: PaymentLinkBase,
		CORSOrigins:     []string{"http://localhost:5173"},
		DB: config.DBConfig{
			Driver: config.DBDriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(tb.Name(), "/", "_")),
		},
		JWT:      config.JWTConfig{Secret: "sandbox-test", Issuer: "sandbox-test", ExpirationMinutes: 30},
		Password: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	}}

	client, err := db.New(ctx, cfg.Sandbox.DB, nil)
	if err != nil {
		tb.Fatalf("open sandbox db: %v", err)
	}
	tb.Cleanup(func() { _ = client.Close() })
	if err := client.Migrate(ctx, models.All()...); err != nil {
		tb.Fatalf("migrate sandbox db: %v", err)
	}

	repo := sandbox.NewRepository(client.DB())
	catalog := sandbox.NewCatalogService(repo, logger.Nop())
	if err := catalog.Seed(ctx); err != nil {
		tb.Fatalf("seed catalog: %v", err)
	}

	reg := prometheus.NewRegistry()
	router := routes.NewRouter(
		cfg,
		logger.Nop(),
		client,
		reg,
		metrics.NewOperationMetrics(reg),
		sandbox.NewUserService(repo, security.NewHasher(cfg.Sandbox.Password), cfg.Sandbox.JWT),
		catalog,
		sandbox.NewCartService(repo),
		sandbox.NewOrderService(client, repo, sandbox.NewPaymentIssuer(cfg.Sandbox.PaymentLinkBase), logger.Nop()),
	)
	srv := httptest.NewServer(router)
	tb.Cleanup(srv.Close)
	return srv
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/internal/checkout"
	"github.com/angelmondragon/storefront-client/internal/sandbox/sandboxtest"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	api := baseURL + "/api/v1"
	return &config.Config{
		Services: config.ServicesConfig{
			UserBaseURL:    api,
			CartBaseURL:    api,
			ProductBaseURL: api,
			OrderBaseURL:   api,
			HTTPTimeout:    5 * time.Second,
		},
		Cart: config.CartConfig{Mode: config.CartModeServer},
	}
}

// invoke runs one command the way the binary does: a fresh client over the
// shared storage, closed afterwards.
func invoke(t *testing.T, baseURL string, backend *storage.MemoryBackend, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	a, err := newApp(testConfig(baseURL), logger.Nop(), backend.Open(), prometheus.NewRegistry(), out)
	require.NoError(t, err)
	runErr := a.run(context.Background(), args)
	require.NoError(t, a.close())
	return out.String(), runErr
}

func TestShoppingSession(t *testing.T) {
	srv := sandboxtest.NewServer(t)
	backend := storage.NewMemoryBackend()
	run := func(args ...string) string {
		t.Helper()
		out, err := invoke(t, srv.URL, backend, args...)
		require.NoError(t, err, "storefront %v", args)
		return out
	}

	assert.Contains(t, run("whoami"), "not signed in")

	run("register",
		"-name", "Carla", "-lastname", "Dias", "-email", "carla@example.com", "-password", "s3cret-pass",
		"-address", "Rua B, 5", "-zipcode", "30000-000", "-national-id", "11122233344", "-phone", "31977776666", "-state", "mg",
	)
	assert.Contains(t, run("login", "-email", "carla@example.com", "-password", "s3cret-pass"), "signed in as user")

	run("add", "1")
	assert.Contains(t, run("add", "2"), "cart has 2 item(s)")
	assert.Contains(t, run("cart"), "39.90")

	qr := filepath.Join(t.TempDir(), "pix.png")
	out := run("checkout", "-method", "pix", "-qr-file", qr, "-no-open")
	assert.Contains(t, out, "PIX copy-paste: 000201")
	assert.Contains(t, out, "open this link to pay: "+sandboxtest.PaymentLinkBase)
	raw, err := os.ReadFile(qr)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))

	assert.Contains(t, run("cart"), "cart is empty")

	run("logout")
	_, err = invoke(t, srv.URL, backend, "add", "1")
	require.Error(t, err)
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	backend := storage.NewMemoryBackend()

	out, err := invoke(t, "http://127.0.0.1:1", backend)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "usage: storefront"))

	_, err = invoke(t, "http://127.0.0.1:1", backend, "teleport")
	assert.Error(t, err)
	_, err = invoke(t, "http://127.0.0.1:1", backend, "add", "abc")
	assert.Error(t, err)
}

func TestBrowserOpenerFallsBackToPrinting(t *testing.T) {
	out := &bytes.Buffer{}
	opener := newBrowserOpener(out)
	opener.start = func(string, ...string) error { return errors.New("no display") }

	err := checkout.OpenPaymentLink(opener, checkout.Result{PaymentLink: "https://pay.test/i/42/pay"})
	require.NoError(t, err)
	assert.Equal(t, "open this link to pay: https://pay.test/i/42/pay\n", out.String())
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/auth"
	"github.com/angelmondragon/storefront-client/pkg/config"
)

func protected(t *testing.T, cfg config.JWTConfig, seen *int64) http.Handler {
	t.Helper()
	return Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	var seen int64
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	protected(t, cfg, &seen).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	var seen int64
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	protected(t, cfg, &seen).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{UserID: 42, Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var seen int64
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	protected(t, cfg, &seen).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seen != 42 {
		t.Fatalf("expected user 42 in context, got %d", seen)
	}
}

func TestUserIDRequiresAuth(t *testing.T) {
	if _, ok := UserID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); ok {
		t.Fatal("expected no user without Auth")
	}
}

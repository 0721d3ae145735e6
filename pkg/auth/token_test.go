package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront-sandbox",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: 42, Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", claims.UserID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be populated")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Sub(now) < 29*time.Minute {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}

	id, ok := UserIDFromToken(token)
	if !ok || id != 42 {
		t.Fatalf("unverified decode returned %d, %v", id, ok)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "sandbox", ExpirationMinutes: 5}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	cfg.Secret = "other"
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "sandbox", ExpirationMinutes: 5}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	cfg.ExpirationMinutes = 0
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestParseAccessTokenRejectsExpiredAndMismatchedSubject(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "sandbox", ExpirationMinutes: 5}

	stale, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: 7})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, stale); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   "8",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := forged.SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected subject mismatch to be rejected")
	}
}

func fakeToken(payload string, encoding *base64.Encoding) string {
	return "h." + encoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestUserIDFromToken(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		wantID int64
		wantOK bool
	}{
		{"number claim", fakeToken(`{"userId":42}`, base64.RawURLEncoding), 42, true},
		{"string claim", fakeToken(`{"userId":"17"}`, base64.RawURLEncoding), 17, true},
		{"standard alphabet", fakeToken(`{"userId":5}`, base64.StdEncoding), 5, true},
		{"integral float", fakeToken(`{"userId":9.0}`, base64.RawURLEncoding), 9, true},
		{"two segments", "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"userId":3}`)), 3, true},
		{"fractional", fakeToken(`{"userId":1.5}`, base64.RawURLEncoding), 0, false},
		{"missing claim", fakeToken(`{"sub":"1"}`, base64.RawURLEncoding), 0, false},
		{"bool claim", fakeToken(`{"userId":true}`, base64.RawURLEncoding), 0, false},
		{"non numeric string", fakeToken(`{"userId":"abc"}`, base64.RawURLEncoding), 0, false},
		{"not json", fakeToken(`userId=1`, base64.RawURLEncoding), 0, false},
		{"single segment", "abc", 0, false},
		{"empty", "", 0, false},
		{"bad base64", "h.%%%.sig", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := UserIDFromToken(tc.token)
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("UserIDFromToken(%q) = %d, %v; want %d, %v", tc.token, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestUserIDFromTokenURLSafeCharacters(t *testing.T) {
	// The quoted "??>" lands on a "_" in the url-safe alphabet.
	payload := `{"userId":8,"n":"??>"}`
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	if !strings.ContainsAny(encoded, "-_") {
		t.Fatalf("expected url-safe characters in %q", encoded)
	}
	id, ok := UserIDFromToken("h." + encoded)
	if !ok || id != 8 {
		t.Fatalf("got %d, %v", id, ok)
	}
}

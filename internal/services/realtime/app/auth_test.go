package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
)

func signTestToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestNewTokenVerifierDisabledWithoutSecret(t *testing.T) {
	if v := newTokenVerifier("  ", nil); v != nil {
		t.Fatal("expected nil verifier for blank secret")
	}
}

func TestTokenVerifierAuthenticate(t *testing.T) {
	v := newTokenVerifier("s3cret", nil)

	got, err := v.Authenticate(signTestToken(t, "s3cret", "alice", time.Hour))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got != "alice" {
		t.Fatalf("subject = %q, want alice", got)
	}

	cases := map[string]string{
		"empty":        "",
		"wrong secret": signTestToken(t, "other", "alice", time.Hour),
		"expired":      signTestToken(t, "s3cret", "alice", -time.Minute),
		"no subject":   signTestToken(t, "s3cret", " ", time.Hour),
		"garbage":      "not-a-jwt",
	}
	for name, token := range cases {
		if _, err := v.Authenticate(token); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Fatalf("%s: err = %v, want %s", name, err, apperrors.CodeUnauthorized)
		}
	}
}

func TestTokenVerifierRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "alice"})
	signed, err := token.SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := newTokenVerifier("s3cret", nil).Authenticate(signed); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestAccessTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/unread", nil)
	req.Header.Set("Authorization", "Bearer abc")
	if got := accessTokenFromRequest(req); got != "abc" {
		t.Fatalf("bearer token = %q, want abc", got)
	}

	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "from-cookie"})
	if got := accessTokenFromRequest(req); got != "from-cookie" {
		t.Fatalf("cookie token = %q, want from-cookie", got)
	}

	if got := accessTokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("token = %q, want empty", got)
	}
}

func TestAuthenticatorRequestUser(t *testing.T) {
	open := authenticator{}
	req := httptest.NewRequest(http.MethodGet, "/unread", nil)
	if _, err := open.requestUser(req); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("missing header err = %v, want %s", err, apperrors.CodeUnauthorized)
	}
	req.Header.Set(userIDHeader, " bob ")
	if got, err := open.requestUser(req); err != nil || got != "bob" {
		t.Fatalf("requestUser = %q, %v, want bob", got, err)
	}

	secured := authenticator{verifier: newTokenVerifier("s3cret", nil)}
	if _, err := secured.requestUser(req); err == nil {
		t.Fatal("expected X-User-Id to be ignored when tokens are required")
	}
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "s3cret", "alice", time.Hour))
	if got, err := secured.requestUser(req); err != nil || got != "alice" {
		t.Fatalf("requestUser = %q, %v, want alice", got, err)
	}
}

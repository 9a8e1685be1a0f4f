package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartSessionIssuesToken(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	issued := rec.Header().Get("X-Cart-Session")
	if _, err := uuid.Parse(issued); err != nil {
		t.Fatalf("expected uuid session token, got %q", issued)
	}
	if seen != issued {
		t.Fatalf("context session %q does not match header %q", seen, issued)
	}
}

func TestCartSessionEchoesValidToken(t *testing.T) {
	existing := uuid.NewString()
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Session", existing)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Cart-Session"); got != existing {
		t.Fatalf("expected existing token echoed, got %q", got)
	}
}

func TestCartSessionReplacesMalformedToken(t *testing.T) {
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Session", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Cart-Session")
	if got == "not-a-uuid" {
		t.Fatal("malformed token must not be echoed back")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected replacement uuid, got %q", got)
	}
}

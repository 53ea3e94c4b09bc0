package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/payment/verify", nil)
	w := httptest.NewRecorder()
	h(w, r, nil)

	if called {
		t.Fatal("handler ran without a token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateRejectsUpgradeHeadersWithoutToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	// upgrade headers must not bypass authentication on API routes
	r := httptest.NewRequest(http.MethodPost, "/api/v1/payment/verify", nil)
	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	h(w, r, nil)

	if called {
		t.Fatal("upgrade headers bypassed authentication")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateRejectsMalformedToken(t *testing.T) {
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler ran with a malformed token")
	})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	h(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

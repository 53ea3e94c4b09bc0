package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignatureDeterministic(t *testing.T) {
	secret := []byte("test_secret")

	a := Signature("order_abc", "pay_xyz", secret)
	b := Signature("order_abc", "pay_xyz", secret)
	if a != b {
		t.Fatalf("same inputs produced different digests: %s vs %s", a, b)
	}

	if Signature("order_abd", "pay_xyz", secret) == a {
		t.Fatal("mutated order ref produced identical digest")
	}
	if Signature("order_abc", "pay_xyw", secret) == a {
		t.Fatal("mutated payment ref produced identical digest")
	}
}

func TestVerifySignature(t *testing.T) {
	c := NewWithCredentials("key_id", "key_secret")

	sig := Signature("order_1", "pay_1", []byte("key_secret"))
	if !c.VerifySignature("order_1", "pay_1", sig) {
		t.Fatal("valid signature rejected")
	}
	if c.VerifySignature("order_1", "pay_1", sig+"0") {
		t.Fatal("tampered signature accepted")
	}
	if c.VerifySignature("order_2", "pay_1", sig) {
		t.Fatal("signature accepted for wrong order ref")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Errorf("missing or wrong basic auth")
		}
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Amount != 50000 || body.Currency != "INR" || body.Receipt == "" {
			t.Errorf("unexpected request body: %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "order_test123"})
	}))
	defer srv.Close()

	c := NewWithCredentials("key_id", "key_secret")
	c.SetBaseURL(srv.URL)

	ref, err := c.CreateOrder(context.Background(), 50000, "INR", "rcpt-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if ref != "order_test123" {
		t.Fatalf("expected order_test123, got %s", ref)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewWithCredentials("key_id", "key_secret")
	c.SetBaseURL(srv.URL)

	if _, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt-2"); err == nil {
		t.Fatal("expected error for gateway failure")
	}
}

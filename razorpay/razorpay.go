package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client talks to the Razorpay orders API.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func New() *Client {
	return NewWithCredentials(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
}

func NewWithCredentials(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

type orderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a payment intent for amountPaise and returns the
// opaque gateway order reference. The receipt must be fresh per checkout
// attempt; the gateway does not deduplicate on it.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (string, error) {
	payload, err := json.Marshal(orderRequest{Amount: amountPaise, Currency: currency, Receipt: receipt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
		return "", fmt.Errorf("razorpay: create order failed: status %d: %s", resp.StatusCode, body)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("razorpay: create order returned empty id")
	}
	return out.ID, nil
}

// Signature computes the hex HMAC-SHA256 of "{orderRef}|{paymentRef}".
// This is the gateway's wire contract; do not change the payload shape.
func Signature(orderRef, paymentRef string, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a client-supplied confirmation signature in
// constant time.
func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	expected := Signature(orderRef, paymentRef, []byte(c.keySecret))
	return hmac.Equal([]byte(expected), []byte(signature))
}

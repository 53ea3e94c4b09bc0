package orders

import (
	"errors"
	"testing"
	"time"

	"mandi/inventory"
	"mandi/models"
)

func TestValidateOrderRequest(t *testing.T) {
	good := createOrderRequest{
		Amount:  500,
		Product: []LineItem{{ProductID: "p1", Quantity: 2, Price: 250}},
	}

	cases := []struct {
		name   string
		mutate func(r createOrderRequest) createOrderRequest
		want   error
	}{
		{"ok", func(r createOrderRequest) createOrderRequest { return r }, nil},
		{"zero amount", func(r createOrderRequest) createOrderRequest { r.Amount = 0; return r }, ErrInvalidOrderData},
		{"negative amount", func(r createOrderRequest) createOrderRequest { r.Amount = -10; return r }, ErrInvalidOrderData},
		{"empty items", func(r createOrderRequest) createOrderRequest { r.Product = nil; return r }, ErrInvalidOrderData},
		{"zero quantity", func(r createOrderRequest) createOrderRequest {
			r.Product = []LineItem{{ProductID: "p1", Quantity: 0, Price: 250}}
			return r
		}, ErrInvalidOrderData},
		{"missing product id", func(r createOrderRequest) createOrderRequest {
			r.Product = []LineItem{{Quantity: 1, Price: 250}}
			return r
		}, ErrInvalidOrderData},
		{"amount below item total", func(r createOrderRequest) createOrderRequest {
			r.Amount = 400
			return r
		}, ErrAmountMismatch},
		{"amount above item total", func(r createOrderRequest) createOrderRequest {
			r.Amount = 600
			return r
		}, ErrAmountMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateOrderRequest(tc.mutate(good)); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateLineItem(t *testing.T) {
	fixed := models.Product{ProductID: "p1", Stock: 5, Price: 250}
	bidding := models.Product{ProductID: "p2", Stock: 5, BiddingEnabled: true, MinimumBidAmount: 100}

	if err := validateLineItem(fixed, LineItem{ProductID: "p1", Quantity: 2, Price: 250}); err != nil {
		t.Fatalf("valid fixed-price item rejected: %v", err)
	}
	if err := validateLineItem(fixed, LineItem{ProductID: "p1", Quantity: 6, Price: 250}); !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("want insufficient stock, got %v", err)
	}
	if err := validateLineItem(fixed, LineItem{ProductID: "p1", Quantity: 1, Price: 199}); !errors.Is(err, ErrPriceMismatch) {
		t.Fatalf("want price mismatch, got %v", err)
	}
	if err := validateLineItem(bidding, LineItem{ProductID: "p2", Quantity: 1, Price: 99, IsBidOrder: true}); !errors.Is(err, ErrBelowMinimumBid) {
		t.Fatalf("want below minimum bid, got %v", err)
	}
	if err := validateLineItem(bidding, LineItem{ProductID: "p2", Quantity: 1, Price: 150, IsBidOrder: true}); err != nil {
		t.Fatalf("valid bid-derived item rejected: %v", err)
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Now()
	product := models.Product{ProductID: "p1", SellerID: "farmer-1", Price: 250, Stock: 10}
	item := LineItem{ProductID: "p1", Quantity: 2, Price: 250}

	order := buildOrder(product, item, "buyer-1", models.PaymentModeOnline, models.Address{City: "Pune"}, now)

	if order.TotalPrice != 500 {
		t.Fatalf("expected total 500, got %v", order.TotalPrice)
	}
	if order.FinalAmount != 500 {
		t.Fatalf("expected final amount 500, got %v", order.FinalAmount)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Fatalf("online orders must start pending, got %s", order.PaymentStatus)
	}
	if order.OrderStatus != models.OrderProcessing {
		t.Fatalf("orders must start processing, got %s", order.OrderStatus)
	}
	if order.SellerID != "farmer-1" || order.BuyerID != "buyer-1" {
		t.Fatalf("party ids wrong: %+v", order)
	}
	if order.OrderID == "" {
		t.Fatal("order id not assigned")
	}
}

func TestToPaise(t *testing.T) {
	cases := map[float64]int64{
		500:    50000,
		99.99:  9999,
		0.01:   1,
		10.555: 1056, // rounds, never truncates
	}
	for in, want := range cases {
		if got := toPaise(in); got != want {
			t.Fatalf("toPaise(%v) = %d, want %d", in, got, want)
		}
	}
}

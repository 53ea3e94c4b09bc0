package bids

import (
	"errors"
	"testing"
	"time"

	"mandi/models"
)

func bid(bidder string, amount float64, created time.Time) models.Bid {
	return models.Bid{BidderID: bidder, BidAmount: amount, Quantity: 1, CreatedAt: created, UpdatedAt: created}
}

func TestResolveHighest(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := bid("A", 100, base)
	b := bid("B", 250, base.Add(time.Minute))
	c := bid("C", 180, base.Add(2*time.Minute))

	// insertion order must not matter
	for _, list := range [][]models.Bid{{a, b, c}, {c, b, a}, {b, a, c}} {
		got, ok := ResolveHighest(list)
		if !ok || got.BidderID != "B" {
			t.Fatalf("expected B to win, got %+v ok=%v", got, ok)
		}
	}
}

func TestResolveHighestTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	early := bid("early", 200, base)
	late := bid("late", 200, base.Add(time.Hour))

	got, ok := ResolveHighest([]models.Bid{late, early})
	if !ok || got.BidderID != "early" {
		t.Fatalf("tie should go to earliest bid, got %+v", got)
	}
}

func TestResolveHighestEmpty(t *testing.T) {
	if _, ok := ResolveHighest(nil); ok {
		t.Fatal("empty bid list should resolve to nothing")
	}
}

func TestApplyBidReplacesNotAppends(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	list := []models.Bid{bid("A", 100, base), bid("B", 150, base)}

	second := models.Bid{BidderID: "A", BidAmount: 300, Quantity: 2, CreatedAt: base, UpdatedAt: base.Add(time.Minute)}
	out := ApplyBid(list, second)

	if len(out) != 2 {
		t.Fatalf("expected 2 bids after replacement, got %d", len(out))
	}
	count := 0
	for _, b := range out {
		if b.BidderID == "A" {
			count++
			if b.BidAmount != 300 || b.Quantity != 2 {
				t.Fatalf("replacement did not take: %+v", b)
			}
		}
	}
	if count != 1 {
		t.Fatalf("bidder A holds %d bids, want 1", count)
	}
}

func TestApplyBidAppendsNewBidder(t *testing.T) {
	base := time.Now()
	out := ApplyBid([]models.Bid{bid("A", 100, base)}, bid("B", 120, base))
	if len(out) != 2 {
		t.Fatalf("expected append for a new bidder, got %d entries", len(out))
	}
}

func TestLeaderboardCallerFirst(t *testing.T) {
	base := time.Now()
	list := []models.Bid{bid("A", 100, base), bid("B", 250, base), bid("C", 180, base)}

	out := Leaderboard(list, "C")
	if out[0].BidderID != "C" {
		t.Fatalf("caller's bid not pinned first: %+v", out)
	}
	if out[1].BidderID != "B" || out[2].BidderID != "A" {
		t.Fatalf("remaining bids not sorted by amount desc: %+v", out)
	}

	// the presentation ordering must not leak into the award
	got, _ := ResolveHighest(list)
	if got.BidderID != "B" {
		t.Fatalf("highest bid must ignore caller bias, got %s", got.BidderID)
	}
}

func TestValidateBidWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	open := models.Product{
		BiddingEnabled:   true,
		MinimumBidAmount: 50,
		BiddingStartDate: now.Add(-time.Hour),
		BiddingEndDate:   now.Add(time.Hour),
		Stock:            10,
	}

	cases := []struct {
		name    string
		mutate  func(p models.Product) models.Product
		amount  float64
		qty     int
		wantErr error
	}{
		{"ok", func(p models.Product) models.Product { return p }, 60, 1, nil},
		{"disabled", func(p models.Product) models.Product { p.BiddingEnabled = false; return p }, 60, 1, ErrBiddingDisabled},
		{"ended", func(p models.Product) models.Product { p.BiddingEndDate = now.Add(-time.Minute); return p }, 60, 1, ErrBiddingEnded},
		{"ends exactly now", func(p models.Product) models.Product { p.BiddingEndDate = now; return p }, 60, 1, ErrBiddingEnded},
		{"not started", func(p models.Product) models.Product { p.BiddingStartDate = now.Add(time.Minute); return p }, 60, 1, ErrBiddingNotStarted},
		{"too low", func(p models.Product) models.Product { return p }, 49, 1, ErrBidTooLow},
		{"zero quantity", func(p models.Product) models.Product { return p }, 60, 0, ErrInvalidQuantity},
		{"over stock", func(p models.Product) models.Product { return p }, 60, 11, ErrInvalidQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBid(tc.mutate(open), tc.amount, tc.qty, now)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

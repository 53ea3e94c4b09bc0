package bids

import (
	"errors"
	"sort"
	"time"

	"mandi/models"
)

var (
	ErrBiddingDisabled   = errors.New("bidding is not enabled for this product")
	ErrBiddingNotStarted = errors.New("bidding has not started yet")
	ErrBiddingEnded      = errors.New("bidding has ended")
	ErrBidTooLow         = errors.New("bid amount is below the minimum")
	ErrInvalidQuantity   = errors.New("invalid bid quantity")
)

// ValidateBid checks a bid against the product's bidding window, minimum
// amount and stock. Over-quantity bids are rejected, never clamped.
func ValidateBid(p models.Product, amount float64, quantity int, now time.Time) error {
	if !p.BiddingEnabled {
		return ErrBiddingDisabled
	}
	if !p.BiddingStartDate.IsZero() && now.Before(p.BiddingStartDate) {
		return ErrBiddingNotStarted
	}
	if !now.Before(p.BiddingEndDate) {
		return ErrBiddingEnded
	}
	if amount < p.MinimumBidAmount || amount <= 0 {
		return ErrBidTooLow
	}
	if quantity < 1 || quantity > p.Stock {
		return ErrInvalidQuantity
	}
	return nil
}

// ApplyBid returns the bid list with the bidder's entry replaced in place,
// or appended when the bidder has no entry. A bidder never holds two bids.
func ApplyBid(bids []models.Bid, bid models.Bid) []models.Bid {
	out := make([]models.Bid, len(bids))
	copy(out, bids)
	for i, b := range out {
		if b.BidderID == bid.BidderID {
			out[i].BidAmount = bid.BidAmount
			out[i].Quantity = bid.Quantity
			out[i].UpdatedAt = bid.UpdatedAt
			return out
		}
	}
	return append(out, bid)
}

// ResolveHighest is the single authoritative ranking: max bid amount,
// ties broken by earliest CreatedAt. Returns false for an empty list.
func ResolveHighest(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if b.BidAmount > best.BidAmount ||
			(b.BidAmount == best.BidAmount && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	return best, true
}

// Leaderboard is presentation ordering only: the caller's own bid first,
// the rest descending by amount. The award always comes from
// ResolveHighest, never from this ordering.
func Leaderboard(bids []models.Bid, callerID string) []models.Bid {
	out := make([]models.Bid, len(bids))
	copy(out, bids)
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].BidderID == callerID) != (out[j].BidderID == callerID) {
			return out[i].BidderID == callerID
		}
		return out[i].BidAmount > out[j].BidAmount
	})
	return out
}

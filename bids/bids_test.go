package bids

import (
	"testing"
	"time"

	"mandi/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReplaceFilterTargetsBidderEntry(t *testing.T) {
	f := replaceFilter("p1", "A")
	if f["productid"] != "p1" {
		t.Fatalf("filter missing product id: %v", f)
	}
	if f["bids.bidderid"] != "A" {
		t.Fatalf("filter must match the bidder's own entry, got %v", f)
	}
}

func TestAppendFilterExcludesExistingBidder(t *testing.T) {
	f := appendFilter("p1", "A")
	if f["productid"] != "p1" {
		t.Fatalf("filter missing product id: %v", f)
	}
	// without this guard two concurrent first bids from the same bidder
	// can both push, giving the bidder two entries
	ne, ok := f["bids.bidderid"].(bson.M)
	if !ok {
		t.Fatalf("filter missing bidder guard: %v", f)
	}
	if ne["$ne"] != "A" {
		t.Fatalf("push must only match while the bidder has no entry, got %v", ne)
	}
}

func TestReplaceUpdateRewritesInPlace(t *testing.T) {
	now := time.Now()
	b := models.Bid{BidderID: "A", BidAmount: 300, Quantity: 2, UpdatedAt: now}

	set, ok := replaceUpdate(b)["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set update, got %v", replaceUpdate(b))
	}
	if set["bids.$.bidamount"] != 300.0 || set["bids.$.quantity"] != 2 {
		t.Fatalf("positional update wrong: %v", set)
	}
	if set["bids.$.updatedAt"] != now {
		t.Fatalf("positional update must refresh updatedAt: %v", set)
	}
}

package models

import "time"

// Product categories
const (
	CategoryCrop       = "crop"
	CategoryFertilizer = "fertilizer"
	CategoryEquipment  = "equipment"
)

// Bid is embedded in Product. At most one bid per bidder; a repeat bid
// from the same bidder replaces the entry in place.
type Bid struct {
	BidderID  string    `json:"bidderId" bson:"bidderid"`
	BidAmount float64   `json:"bidAmount" bson:"bidamount"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Product is a farmer's listing. Exactly one pricing mode is active:
// fixed Price when BiddingEnabled is false, the bidding fields otherwise.
type Product struct {
	ProductID        string    `json:"productId" bson:"productid"`
	SellerID         string    `json:"sellerId" bson:"sellerid"`
	Name             string    `json:"name" bson:"name"`
	Description      string    `json:"description,omitempty" bson:"description,omitempty"`
	Category         string    `json:"category" bson:"category"`
	Stock            int       `json:"stock" bson:"stock"`
	IsAvailable      bool      `json:"isAvailable" bson:"isAvailable"`
	Price            float64   `json:"price,omitempty" bson:"price,omitempty"`
	BiddingEnabled   bool      `json:"biddingEnabled" bson:"biddingEnabled"`
	MinimumBidAmount float64   `json:"minimumBidAmount,omitempty" bson:"minimumBidAmount,omitempty"`
	BiddingStartDate time.Time `json:"biddingStartDate,omitempty" bson:"biddingStartDate,omitempty"`
	BiddingEndDate   time.Time `json:"biddingEndDate,omitempty" bson:"biddingEndDate,omitempty"`
	Bids             []Bid     `json:"bids,omitempty" bson:"bids,omitempty"`
	HighestBid       float64   `json:"highestBid,omitempty" bson:"highestBid,omitempty"`
	HighestBidder    string    `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryCrop, CategoryFertilizer, CategoryEquipment:
		return true
	}
	return false
}

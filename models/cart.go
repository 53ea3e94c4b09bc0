package models

import "time"

// CartItem represents a single item in the user's cart.
type CartItem struct {
	UserID     string    `json:"userId" bson:"userId"`
	ProductID  string    `json:"productId" bson:"productId"`
	ItemName   string    `json:"itemName" bson:"itemName"`
	Category   string    `json:"category" bson:"category"`
	SellerID   string    `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	Price      float64   `json:"price" bson:"price"` // unit price
	IsBidOrder bool      `json:"isBidOrder,omitempty" bson:"isBidOrder,omitempty"`
	AddedAt    time.Time `json:"addedAt" bson:"addedAt"`
}

package models

import "time"

// Payment modes
const (
	PaymentModeCOD    = "cod"
	PaymentModeOnline = "online"
)

// Payment statuses
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order statuses. Delivered and Cancelled are terminal.
const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is one row per checkout line item. Orders created in the same
// checkout share a RazorpayOrderID, which is the reconciliation join key.
type Order struct {
	OrderID         string    `json:"orderId" bson:"orderid"`
	BuyerID         string    `json:"buyerId" bson:"buyerid"`
	SellerID        string    `json:"sellerId" bson:"sellerid"`
	ProductID       string    `json:"productId" bson:"productid"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	PricePerUnit    float64   `json:"pricePerUnit" bson:"priceperunit"`
	TotalPrice      float64   `json:"totalPrice" bson:"totalprice"`
	FinalAmount     float64   `json:"finalAmount" bson:"finalamount"`
	IsBidOrder      bool      `json:"isBidOrder" bson:"isbidorder"`
	Address         Address   `json:"address" bson:"address"`
	PaymentMode     string    `json:"paymentMode" bson:"paymentmode"`
	PaymentStatus   string    `json:"paymentStatus" bson:"paymentstatus"`
	OrderStatus     string    `json:"orderStatus" bson:"orderstatus"`
	RazorpayOrderID string    `json:"razorpayOrderId,omitempty" bson:"razorpayorderid,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Address is the shipping address captured at checkout.
type Address struct {
	Line1   string `json:"line1" bson:"line1"`
	Line2   string `json:"line2,omitempty" bson:"line2,omitempty"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// OrderSummary is the caller-facing projection returned by checkout.
// No seller/buyer PII beyond what the caller already holds.
type OrderSummary struct {
	OrderID       string  `json:"_id"`
	ProductID     string  `json:"productId"`
	TotalPrice    float64 `json:"totalPrice"`
	PaymentStatus string  `json:"paymentStatus"`
}

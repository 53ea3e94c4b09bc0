package orders

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMissingPaymentFields(t *testing.T) {
	full := verifyPaymentRequest{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"}
	if missingPaymentFields(full) {
		t.Fatal("complete request flagged as missing")
	}

	for _, req := range []verifyPaymentRequest{
		{OrderID: "order_1", Signature: "sig"},
		{PaymentID: "pay_1", Signature: "sig"},
		{PaymentID: "pay_1", OrderID: "order_1"},
		{},
	} {
		if !missingPaymentFields(req) {
			t.Fatalf("incomplete request accepted: %+v", req)
		}
	}
}

func TestReconcileFilter(t *testing.T) {
	filter := reconcileFilter("order_ref_1")
	if filter["razorpayorderid"] != "order_ref_1" {
		t.Fatalf("filter must join on the gateway reference, got %v", filter)
	}
	if len(filter) != 1 {
		t.Fatalf("filter must match every order sharing the reference, got %v", filter)
	}
}

func TestPaidUpdate(t *testing.T) {
	now := time.Now()
	update := paidUpdate(now)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set update, got %v", update)
	}
	if set["paymentstatus"] != "paid" {
		t.Fatalf("update must set paymentstatus to paid, got %v", set)
	}
	if set["updatedAt"] != now {
		t.Fatalf("update must refresh updatedAt, got %v", set)
	}
}

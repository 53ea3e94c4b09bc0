package inventory

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDecrementFilterGuardsStock(t *testing.T) {
	filter := decrementFilter("p1", 3)

	if filter["productid"] != "p1" {
		t.Fatalf("filter missing product id: %v", filter)
	}
	guard, ok := filter["stock"].(bson.M)
	if !ok {
		t.Fatalf("filter missing stock guard: %v", filter)
	}
	// the guard and the decrement must land in the same round trip,
	// otherwise two buyers can both take the last unit
	if guard["$gte"] != 3 {
		t.Fatalf("stock guard must require stock >= qty, got %v", guard)
	}
}

func TestDecrementUpdate(t *testing.T) {
	update := decrementUpdate(3)

	inc, ok := update["$inc"].(bson.M)
	if !ok {
		t.Fatalf("expected an $inc update, got %v", update)
	}
	if inc["stock"] != -3 {
		t.Fatalf("expected stock decrement of 3, got %v", inc["stock"])
	}
}

func TestDecrementStockRejectsInvalidQuantity(t *testing.T) {
	l := &Ledger{}
	for _, qty := range []int{0, -1} {
		if err := l.DecrementStock(context.Background(), "p1", qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: want ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if err := l.RestoreStock(context.Background(), "p1", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("restore with zero quantity: want ErrInvalidQuantity, got %v", err)
	}
}

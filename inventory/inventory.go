package inventory

import (
	"context"
	"errors"
	"time"

	"mandi/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Ledger is the only writer of Product.stock. All stock movement goes
// through DecrementStock / RestoreStock so two buyers can never both take
// the last unit.
type Ledger struct {
	col *mongo.Collection
}

func NewLedger() *Ledger {
	return &Ledger{col: db.ProductsCollection}
}

// decrementFilter only matches while stock can cover qty, so the guard and
// the decrement land in one round trip.
func decrementFilter(productID string, qty int) bson.M {
	return bson.M{
		"productid": productID,
		"stock":     bson.M{"$gte": qty},
	}
}

func decrementUpdate(qty int) bson.M {
	return bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updatedAt": time.Now()},
	}
}

// DecrementStock atomically reserves qty units. Returns
// ErrInsufficientStock when fewer than qty units remain.
func (l *Ledger) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	res, err := l.col.UpdateOne(ctx, decrementFilter(productID, qty), decrementUpdate(qty))
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		n, cerr := l.col.CountDocuments(ctx, bson.M{"productid": productID})
		if cerr == nil && n == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}

	// Flip availability once stock hits zero.
	_, _ = l.col.UpdateOne(ctx,
		bson.M{"productid": productID, "stock": 0},
		bson.M{"$set": bson.M{"isAvailable": false}},
	)
	return nil
}

// RestoreStock undoes a reservation when a later checkout phase fails.
// It is compensation internal to Order Intake, not a restock feature.
func (l *Ledger) RestoreStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	_, err := l.col.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{
			"$inc": bson.M{"stock": qty},
			"$set": bson.M{"isAvailable": true, "updatedAt": time.Now()},
		},
	)
	return err
}

// ReadStock returns the current stock count without side effects.
func (l *Ledger) ReadStock(ctx context.Context, productID string) (int, error) {
	var doc struct {
		Stock int `bson:"stock"`
	}
	err := l.col.FindOne(ctx, bson.M{"productid": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return doc.Stock, nil
}

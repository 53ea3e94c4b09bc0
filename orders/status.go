package orders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"mandi/models"
	"mandi/mq"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// allowedPriors lists the statuses an order may hold immediately before
// moving to the given status. Delivered and Cancelled never appear as a
// prior: terminal states stay terminal.
func allowedPriors(to string) []string {
	switch to {
	case models.OrderShipped:
		return []string{models.OrderProcessing}
	case models.OrderDelivered:
		return []string{models.OrderShipped}
	case models.OrderCancelled:
		return []string{models.OrderProcessing, models.OrderShipped}
	}
	return nil
}

// CanTransition reports whether from → to is a legal status move.
func CanTransition(from, to string) bool {
	for _, p := range allowedPriors(to) {
		if p == from {
			return true
		}
	}
	return false
}

// updateStatus applies the transition as one conditional update: the filter
// only matches while the order sits in a legal prior status.
func (s *Service) updateStatus(ctx context.Context, orderID, actorID, to string) (int, error) {
	priors := allowedPriors(to)
	if priors == nil {
		return http.StatusBadRequest, errors.New("unknown order status")
	}

	filter := bson.M{
		"orderid":     orderID,
		"orderstatus": bson.M{"$in": priors},
		"$or":         []bson.M{{"sellerid": actorID}, {"buyerid": actorID}},
	}
	res, err := s.orders.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"orderstatus": to,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if res.ModifiedCount == 0 {
		n, cerr := s.orders.CountDocuments(ctx, bson.M{"orderid": orderID})
		if cerr == nil && n == 0 {
			return http.StatusNotFound, errors.New("order not found")
		}
		return http.StatusConflict, errors.New("order status cannot change to " + to)
	}

	mq.Emit(ctx, s.events, mq.Event{
		Type:     mq.EventOrderStatusChanged,
		EntityID: orderID,
		UserID:   actorID,
		Room:     orderID,
		Data:     utils.M{"status": to},
	})
	return http.StatusOK, nil
}

func (s *Service) statusHandler(to string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		actorID := utils.GetUserIDFromRequest(r)
		if actorID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		code, err := s.updateStatus(ctx, ps.ByName("id"), actorID, to)
		if err != nil {
			utils.RespondWithError(w, code, err.Error())
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": to})
	}
}

// POST /api/v1/order/:id/ship
func (s *Service) ShipOrder() httprouter.Handle { return s.statusHandler(models.OrderShipped) }

// POST /api/v1/order/:id/deliver
func (s *Service) DeliverOrder() httprouter.Handle { return s.statusHandler(models.OrderDelivered) }

// POST /api/v1/order/:id/cancel
func (s *Service) CancelOrder() httprouter.Handle { return s.statusHandler(models.OrderCancelled) }

// MarkOrderPaid handles POST /api/v1/order/:id/markpaid. COD only; online
// payment status belongs to reconciliation alone.
func (s *Service) MarkOrderPaid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{
		"orderid":       ps.ByName("id"),
		"sellerid":      sellerID,
		"paymentmode":   models.PaymentModeCOD,
		"paymentstatus": models.PaymentPending,
	}
	res, err := s.orders.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"paymentstatus": models.PaymentPaid,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		log.Println("MarkOrderPaid update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Order is not a pending COD order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (s *Service) listOrders(w http.ResponseWriter, r *http.Request, field string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := s.orders.Find(ctx, bson.M{field: userID}, opts)
	if err != nil {
		log.Println("listOrders find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cur.Close(ctx)

	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		log.Println("listOrders decode error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetMyOrders handles GET /api/v1/orders/mine, orders the caller placed.
func (s *Service) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.listOrders(w, r, "buyerid")
}

// GetIncomingOrders handles GET /api/v1/orders/incoming, orders received
// by the caller's listings.
func (s *Service) GetIncomingOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.listOrders(w, r, "sellerid")
}

// GetOrder handles GET /api/v1/order/:id for the buyer or seller.
func (s *Service) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{
		"orderid": ps.ByName("id"),
		"$or":     []bson.M{{"buyerid": userID}, {"sellerid": userID}},
	}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mandi/models"
	"mandi/mq"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type verifyPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"` // gateway order reference
	Signature string `json:"signature"`
}

func missingPaymentFields(req verifyPaymentRequest) bool {
	return req.PaymentID == "" || req.OrderID == "" || req.Signature == ""
}

// reconcileFilter selects every order sharing the gateway reference so the
// whole checkout flips to paid in one bulk update.
func reconcileFilter(gatewayRef string) bson.M {
	return bson.M{"razorpayorderid": gatewayRef}
}

func paidUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"paymentstatus": models.PaymentPaid,
		"updatedAt":     now,
	}}
}

// VerifyPayment handles POST /api/v1/payment/verify. It is the only writer
// of final online payment status. Safe to call repeatedly: a re-verified
// reference matches but modifies nothing, and the paid event fires only
// when rows actually changed.
func (s *Service) VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": "Invalid JSON payload"})
		return
	}
	if missingPaymentFields(req) {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": "Missing payment details"})
		return
	}

	// A mismatch is not fatal to the order; the client may resubmit the
	// real signature after a retry.
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": "Payment signature verification failed"})
		return
	}

	res, err := s.orders.UpdateMany(ctx, reconcileFilter(req.OrderID), paidUpdate(time.Now()))
	if err != nil {
		log.Println("VerifyPayment update error:", err)
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"success": false, "message": "Failed to update orders"})
		return
	}
	if res.MatchedCount == 0 {
		// Valid signature with no local orders: lost write or replay.
		log.Printf("ANOMALY: verified payment %s for unknown gateway order %s", req.PaymentID, req.OrderID)
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "No matching orders for payment"})
		return
	}

	if res.ModifiedCount > 0 {
		mq.Emit(ctx, s.events, mq.Event{
			Type:     mq.EventOrderPaid,
			EntityID: req.OrderID,
			Room:     req.OrderID,
			Data:     utils.M{"paymentId": req.PaymentID, "orders": res.ModifiedCount},
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Payment verified successfully"})
}

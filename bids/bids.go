package bids

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"mandi/db"
	"mandi/models"
	"mandi/mq"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service holds the bid ledger's collaborators.
type Service struct {
	products *mongo.Collection
	events   mq.Publisher
}

func NewService(pub mq.Publisher) *Service {
	return &Service{products: db.ProductsCollection, events: pub}
}

type placeBidRequest struct {
	BidAmount float64 `json:"bidAmount"`
	Quantity  int     `json:"quantity"`
}

// replaceFilter matches the product only when the bidder already has an
// entry, so the positional $ update rewrites it in place.
func replaceFilter(productID, bidderID string) bson.M {
	return bson.M{"productid": productID, "bids.bidderid": bidderID}
}

func replaceUpdate(bid models.Bid) bson.M {
	return bson.M{"$set": bson.M{
		"bids.$.bidamount": bid.BidAmount,
		"bids.$.quantity":  bid.Quantity,
		"bids.$.updatedAt": bid.UpdatedAt,
	}}
}

// appendFilter only matches while the bidder has no entry, so two
// concurrent first bids from the same bidder cannot both push.
func appendFilter(productID, bidderID string) bson.M {
	return bson.M{"productid": productID, "bids.bidderid": bson.M{"$ne": bidderID}}
}

func pushUpdate(bid models.Bid) bson.M {
	return bson.M{"$push": bson.M{"bids": bid}}
}

// PlaceBid handles POST /api/v1/products/:id/bids
func (s *Service) PlaceBid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	bidderID := utils.GetUserIDFromRequest(r)
	if bidderID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var product models.Product
	if err := s.products.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("PlaceBid FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}

	now := time.Now()
	if err := ValidateBid(product, req.BidAmount, req.Quantity, now); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bid := models.Bid{
		BidderID:  bidderID,
		BidAmount: req.BidAmount,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Replace the bidder's existing entry in place, else append.
	res, err := s.products.UpdateOne(ctx, replaceFilter(productID, bidderID), replaceUpdate(bid))
	if err != nil {
		log.Println("PlaceBid replace error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place bid")
		return
	}
	if res.MatchedCount == 0 {
		pushRes, err := s.products.UpdateOne(ctx, appendFilter(productID, bidderID), pushUpdate(bid))
		if err != nil {
			log.Println("PlaceBid push error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place bid")
			return
		}
		// a concurrent first bid from the same bidder slipped in between
		// the two updates; rewrite that entry instead
		if pushRes.MatchedCount == 0 {
			if _, err := s.products.UpdateOne(ctx, replaceFilter(productID, bidderID), replaceUpdate(bid)); err != nil {
				log.Println("PlaceBid replace retry error:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place bid")
				return
			}
		}
	}

	// Recompute the running leader from the stored list, never from the
	// one read before the update, so a concurrent bidder's entry counts.
	if err := s.products.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		log.Println("PlaceBid reload error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place bid")
		return
	}
	if highest, ok := ResolveHighest(product.Bids); ok {
		product.HighestBid = highest.BidAmount
		product.HighestBidder = highest.BidderID
		_, err = s.products.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": bson.M{
			"highestBid":    highest.BidAmount,
			"highestBidder": highest.BidderID,
			"updatedAt":     now,
		}})
		if err != nil {
			log.Println("PlaceBid highest update error:", err)
		}
	}

	mq.Emit(ctx, s.events, mq.Event{
		Type:     mq.EventBidPlaced,
		EntityID: productID,
		UserID:   bidderID,
		Room:     productID,
		Data:     utils.M{"bidAmount": bid.BidAmount, "highestBid": product.HighestBid},
	})

	product.Bids = Leaderboard(product.Bids, bidderID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "product": product})
}

// GetBids handles GET /api/v1/products/:id/bids
func (s *Service) GetBids(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	callerID := utils.GetUserIDFromRequest(r)

	var product models.Product
	if err := s.products.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}
	if !product.BiddingEnabled {
		utils.RespondWithError(w, http.StatusBadRequest, ErrBiddingDisabled.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"bids":          Leaderboard(product.Bids, callerID),
		"highestBid":    product.HighestBid,
		"highestBidder": product.HighestBidder,
		"biddingEnds":   product.BiddingEndDate,
	})
}

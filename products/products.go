package products

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"mandi/db"
	"mandi/models"
	"mandi/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrPricingMode = errors.New("product must be either fixed-price or bidding, not both")

type createProductRequest struct {
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	Stock            int       `json:"stock"`
	Price            float64   `json:"price,omitempty"`
	BiddingEnabled   bool      `json:"biddingEnabled,omitempty"`
	MinimumBidAmount float64   `json:"minimumBidAmount,omitempty"`
	BiddingStartDate time.Time `json:"biddingStartDate,omitempty"`
	BiddingEndDate   time.Time `json:"biddingEndDate,omitempty"`
}

// validateListing enforces the pricing invariant: bidding XOR fixed price.
func validateListing(req createProductRequest) error {
	if req.Name == "" || !models.ValidCategory(utils.TrimLower(req.Category)) || req.Stock < 0 {
		return errors.New("missing or invalid product fields")
	}
	if req.BiddingEnabled {
		if req.Price != 0 {
			return ErrPricingMode
		}
		if req.MinimumBidAmount <= 0 || req.BiddingEndDate.IsZero() {
			return errors.New("bidding products need a minimum bid and an end date")
		}
		if !req.BiddingStartDate.IsZero() && !req.BiddingStartDate.Before(req.BiddingEndDate) {
			return errors.New("bidding window must start before it ends")
		}
		return nil
	}
	if req.Price <= 0 {
		return errors.New("fixed-price products need a positive price")
	}
	if req.MinimumBidAmount != 0 {
		return ErrPricingMode
	}
	return nil
}

// CreateProduct handles POST /api/v1/products
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validateListing(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	product := models.Product{
		ProductID:        uuid.NewString(),
		SellerID:         sellerID,
		Name:             req.Name,
		Description:      req.Description,
		Category:         utils.TrimLower(req.Category),
		Stock:            req.Stock,
		IsAvailable:      req.Stock > 0,
		Price:            req.Price,
		BiddingEnabled:   req.BiddingEnabled,
		MinimumBidAmount: req.MinimumBidAmount,
		BiddingStartDate: req.BiddingStartDate,
		BiddingEndDate:   req.BiddingEndDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct handles PUT /api/v1/products/:id. Stock is deliberately not
// editable here; stock only moves through the inventory ledger.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name        string  `json:"name,omitempty"`
		Description string  `json:"description,omitempty"`
		Price       float64 `json:"price,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Price > 0 {
		set["price"] = req.Price
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("id"), "sellerid": sellerID},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("EditProduct update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteProduct handles DELETE /api/v1/products/:id. A product referenced
// by an existing order is never hard-deleted.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("id")
	n, err := db.OrdersCollection.CountDocuments(ctx, bson.M{"productid": productID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check orders")
		return
	}
	if n > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Product has orders and cannot be deleted")
		return
	}

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productid": productID, "sellerid": sellerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

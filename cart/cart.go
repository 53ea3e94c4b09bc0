package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mandi/db"
	"mandi/models"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddToCart increments quantity if the item exists, or inserts a new CartItem.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	item.UserID = userID

	if item.ProductID == "" || item.Quantity <= 0 || item.Price <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	// Upsert: increment quantity if the same user/product pair exists
	filter := bson.M{
		"userId":    item.UserID,
		"productId": item.ProductID,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": item.Quantity},
		"$setOnInsert": bson.M{
			"itemName":   item.ItemName,
			"category":   item.Category,
			"sellerId":   item.SellerID,
			"price":      item.Price,
			"isBidOrder": item.IsBidOrder,
			"addedAt":    time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// GetCart returns all cart items for the user, optional ?category= filter
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}

	cursor, err := db.CartCollection.Find(ctx, filter)
	if err != nil {
		log.Println("GetCart Find error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetCart cursor.All error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}

	if len(items) == 0 {
		items = []models.CartItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// RemoveFromCart deletes one product from the user's cart
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.CartCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"productId": ps.ByName("id"),
	})
	if err != nil {
		log.Println("RemoveFromCart delete error:", err)
		http.Error(w, "Failed to remove item", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart drops every item in the user's cart
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart delete error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

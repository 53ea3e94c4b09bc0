package products

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"mandi/db"
	"mandi/models"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetProduct handles GET /api/v1/products/:id
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetProducts handles GET /api/v1/products with optional ?category=,
// ?seller=, ?available=true filters.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if cat := utils.TrimLower(r.URL.Query().Get("category")); cat != "" {
		filter["category"] = cat
	}
	if seller := r.URL.Query().Get("seller"); seller != "" {
		filter["sellerid"] = seller
	}
	if avail := r.URL.Query().Get("available"); avail == "true" {
		filter["isAvailable"] = true
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cur, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetProducts find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}
	defer cur.Close(ctx)

	var list []models.Product
	if err := cur.All(ctx, &list); err != nil {
		log.Println("GetProducts decode error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if list == nil {
		list = []models.Product{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

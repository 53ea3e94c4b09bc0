package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductsCollection    *mongo.Collection
	OrdersCollection      *mongo.Collection
	CartCollection        *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("mandidb").Collection("users")
	ProductsCollection = Client.Database("mandidb").Collection("products")
	OrdersCollection = Client.Database("mandidb").Collection("orders")
	CartCollection = Client.Database("mandidb").Collection("cart")
	IdempotencyCollection = Client.Database("mandidb").Collection("idempotency")
}

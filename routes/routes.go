package routes

import (
	"mandi/auth"
	"mandi/bids"
	"mandi/cart"
	"mandi/live"
	"mandi/middleware"
	"mandi/mq"
	"mandi/products"
	"mandi/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/v1/auth/login", rateLimiter.Limit(auth.Login))
}

func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, pub mq.Publisher) {
	bidService := bids.NewService(pub)

	router.GET("/api/v1/products", middleware.OptionalAuth(products.GetProducts))
	router.GET("/api/v1/products/:id", middleware.OptionalAuth(products.GetProduct))

	router.POST("/api/v1/products",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(products.CreateProduct))
	router.PUT("/api/v1/products/:id",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(products.EditProduct))
	router.DELETE("/api/v1/products/:id",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(products.DeleteProduct))

	router.GET("/api/v1/products/:id/bids", middleware.OptionalAuth(bidService.GetBids))
	router.POST("/api/v1/products/:id/bids",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(bidService.PlaceBid))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/v1/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/v1/cart",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(cart.AddToCart))
	router.DELETE("/api/v1/cart/:id", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/v1/cart", middleware.Authenticate(cart.ClearCart))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/updates/:room", middleware.OptionalAuth(live.ServeWS(hub)))
}

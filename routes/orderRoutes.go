package routes

import (
	"mandi/middleware"
	"mandi/orders"
	"mandi/pay"
	"mandi/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddOrderRoutes wires order intake, reconciliation and the status
// lifecycle to the router. List routes live under /orders, single-order
// routes under /order/:id (httprouter cannot mix static and param
// segments at the same level).
func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, orderService *orders.Service) {
	router.POST("/api/v1/orders",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			pay.Idempotency,
		)(orderService.CreateOrder),
	)

	// Payment gateway confirmation callback
	router.POST("/api/v1/payment/verify",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(orderService.VerifyPayment),
	)

	router.GET("/api/v1/orders/mine", middleware.Authenticate(orderService.GetMyOrders))
	router.GET("/api/v1/orders/incoming", middleware.Authenticate(orderService.GetIncomingOrders))

	router.GET("/api/v1/order/:id", middleware.Authenticate(orderService.GetOrder))
	router.GET("/api/v1/order/:id/receipt", middleware.Authenticate(orderService.DownloadReceipt))

	router.POST("/api/v1/order/:id/ship", middleware.Authenticate(orderService.ShipOrder()))
	router.POST("/api/v1/order/:id/deliver", middleware.Authenticate(orderService.DeliverOrder()))
	router.POST("/api/v1/order/:id/cancel", middleware.Authenticate(orderService.CancelOrder()))
	router.POST("/api/v1/order/:id/markpaid", middleware.Authenticate(orderService.MarkOrderPaid))
}

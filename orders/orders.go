package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"mandi/db"
	"mandi/inventory"
	"mandi/models"
	"mandi/mq"
	"mandi/pay"
	"mandi/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidOrderData = errors.New("invalid order data")
	ErrAmountMismatch   = errors.New("amount does not match the order total")
	ErrPriceMismatch    = errors.New("price does not match the product listing")
	ErrBelowMinimumBid  = errors.New("amount is below the minimum bid")
)

const gatewayTimeout = 10 * time.Second

// Gateway is the consumed payment-gateway interface.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (string, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}

// Service owns order intake, reconciliation and the status lifecycle.
type Service struct {
	orders   *mongo.Collection
	products *mongo.Collection
	cart     *mongo.Collection
	ledger   *inventory.Ledger
	gateway  Gateway
	events   mq.Publisher
}

func NewService(gw Gateway, pub mq.Publisher) *Service {
	return &Service{
		orders:   db.OrdersCollection,
		products: db.ProductsCollection,
		cart:     db.CartCollection,
		ledger:   inventory.NewLedger(),
		gateway:  gw,
		events:   pub,
	}
}

// LineItem is one entry of the checkout payload.
type LineItem struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	IsBidOrder bool    `json:"isBidOrder,omitempty"`
}

type createOrderRequest struct {
	Amount      float64        `json:"amount"` // major units (rupees)
	PaymentMode string         `json:"paymentMode,omitempty"`
	Product     []LineItem     `json:"product"`
	Address     models.Address `json:"address"`
}

type createOrderResponse struct {
	ID       string                `json:"id"`
	Currency string                `json:"currency"`
	Amount   float64               `json:"amount"`
	Orders   []models.OrderSummary `json:"orders"`
}

func validateOrderRequest(req createOrderRequest) error {
	if req.Amount <= 0 || len(req.Product) == 0 {
		return ErrInvalidOrderData
	}
	var total float64
	for _, item := range req.Product {
		if item.ProductID == "" || item.Quantity < 1 || item.Price <= 0 {
			return ErrInvalidOrderData
		}
		total += float64(item.Quantity) * item.Price
	}
	// the gateway intent is created for req.Amount, so an understated
	// amount would still flip every order to paid on verification
	if toPaise(total) != toPaise(req.Amount) {
		return ErrAmountMismatch
	}
	return nil
}

// validateLineItem checks a line against the current listing: stock cover,
// fixed-price consistency, minimum-bid consistency for bid-derived items.
func validateLineItem(p models.Product, item LineItem) error {
	if item.Quantity > p.Stock {
		return inventory.ErrInsufficientStock
	}
	if item.IsBidOrder {
		if p.BiddingEnabled && item.Price < p.MinimumBidAmount {
			return ErrBelowMinimumBid
		}
		return nil
	}
	if p.Price > 0 && item.Price != p.Price {
		return ErrPriceMismatch
	}
	return nil
}

func buildOrder(p models.Product, item LineItem, buyerID, mode string, addr models.Address, now time.Time) models.Order {
	total := float64(item.Quantity) * item.Price
	return models.Order{
		OrderID:       uuid.NewString(),
		BuyerID:       buyerID,
		SellerID:      p.SellerID,
		ProductID:     p.ProductID,
		Quantity:      item.Quantity,
		PricePerUnit:  item.Price,
		TotalPrice:    total,
		FinalAmount:   total,
		IsBidOrder:    item.IsBidOrder,
		Address:       addr,
		PaymentMode:   mode,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// toPaise converts rupees to the gateway's minor currency units.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder handles POST /api/v1/orders. Validate everything first, then
// reserve stock, then the gateway intent, then persist, so a failure at
// any phase leaves no orphaned orders and no lost stock.
func (s *Service) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validateOrderRequest(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := utils.TrimLower(req.PaymentMode)
	if mode == "" {
		mode = models.PaymentModeOnline
	}
	if mode != models.PaymentModeOnline && mode != models.PaymentModeCOD {
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidOrderData.Error())
		return
	}

	// One checkout at a time per buyer.
	locked, err := pay.AcquireCheckoutLock(ctx, buyerID)
	if err != nil {
		log.Println("CreateOrder lock error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Checkout unavailable")
		return
	}
	if !locked {
		utils.RespondWithError(w, http.StatusConflict, "Checkout already in progress")
		return
	}
	defer pay.ReleaseCheckoutLock(ctx, buyerID)

	// Phase 1: validate every line item before any side effect.
	now := time.Now()
	pending := make([]models.Order, 0, len(req.Product))
	for _, item := range req.Product {
		var product models.Product
		if err := s.products.FindOne(ctx, bson.M{"productid": item.ProductID}).Decode(&product); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.RespondWithError(w, http.StatusNotFound, "Product not found")
				return
			}
			log.Println("CreateOrder product lookup error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to validate order")
			return
		}
		if err := validateLineItem(product, item); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		pending = append(pending, buildOrder(product, item, buyerID, mode, req.Address, now))
	}

	// Phase 2: reserve stock; undo earlier reservations on any failure.
	reserved := make([]models.Order, 0, len(pending))
	rollback := func() {
		for _, o := range reserved {
			if err := s.ledger.RestoreStock(ctx, o.ProductID, o.Quantity); err != nil {
				log.Printf("CreateOrder: stock restore failed for %s: %v", o.ProductID, err)
			}
		}
	}
	for _, o := range pending {
		if err := s.ledger.DecrementStock(ctx, o.ProductID, o.Quantity); err != nil {
			rollback()
			switch {
			case errors.Is(err, inventory.ErrProductNotFound):
				utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			case errors.Is(err, inventory.ErrInsufficientStock):
				utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			default:
				log.Println("CreateOrder reserve error:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve stock")
			}
			return
		}
		reserved = append(reserved, o)
	}

	// Phase 3: gateway intent. Orders must never reference an intent that
	// was not actually created, so this strictly precedes persistence.
	var gatewayRef string
	if mode == models.PaymentModeOnline {
		gctx, gcancel := context.WithTimeout(ctx, gatewayTimeout)
		defer gcancel()
		receipt := "rcpt_" + utils.GenerateRandomString(12)
		gatewayRef, err = s.gateway.CreateOrder(gctx, toPaise(req.Amount), "INR", receipt)
		if err != nil {
			rollback()
			log.Println("CreateOrder gateway error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create payment order")
			return
		}
		for i := range pending {
			pending[i].RazorpayOrderID = gatewayRef
		}
	}

	// Phase 4: persist one order per line item.
	docs := make([]interface{}, 0, len(pending))
	for _, o := range pending {
		docs = append(docs, o)
	}
	if _, err := s.orders.InsertMany(ctx, docs); err != nil {
		rollback()
		log.Println("CreateOrder insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create orders")
		return
	}

	// Ordered items leave the cart.
	ids := make([]string, 0, len(pending))
	for _, o := range pending {
		ids = append(ids, o.ProductID)
	}
	if _, err := s.cart.DeleteMany(ctx, bson.M{"userId": buyerID, "productId": bson.M{"$in": ids}}); err != nil {
		log.Println("CreateOrder cart clear error:", err)
	}

	summaries := make([]models.OrderSummary, 0, len(pending))
	for _, o := range pending {
		summaries = append(summaries, models.OrderSummary{
			OrderID:       o.OrderID,
			ProductID:     o.ProductID,
			TotalPrice:    o.TotalPrice,
			PaymentStatus: o.PaymentStatus,
		})
		mq.Emit(ctx, s.events, mq.Event{
			Type:     mq.EventOrderCreated,
			EntityID: o.OrderID,
			UserID:   buyerID,
			Room:     o.SellerID,
			Data:     utils.M{"productId": o.ProductID, "quantity": o.Quantity},
		})
	}

	utils.RespondWithJSON(w, http.StatusCreated, createOrderResponse{
		ID:       gatewayRef,
		Currency: "INR",
		Amount:   req.Amount,
		Orders:   summaries,
	})
}

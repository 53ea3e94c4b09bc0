package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mandi/models"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DownloadReceipt handles GET /api/v1/order/:id/receipt and streams a PDF
// with a QR code carrying the order id.
func (s *Service) DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	qrPNG, err := qrcode.Encode(order.OrderID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Product: %s x%d", order.ProductID, order.Quantity))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: INR %.2f", order.TotalPrice))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Payment: %s (%s)", order.PaymentStatus, order.PaymentMode))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.OrderStatus))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sportsvenue/service-payment/internal/application"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/platform/response"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProcessPaymentRequest is the body of POST /api/payments.
// Text limits follow the payments table columns.
type ProcessPaymentRequest struct {
	BookingID     int64            `json:"bookingId" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Method        string           `json:"method" binding:"max=50"`
	Status        string           `json:"status" binding:"max=20"`
	PaymentDate   string           `json:"paymentDate" binding:"max=64"`
	PaymentMethod string           `json:"paymentMethod" binding:"max=50"`
	TransactionID string           `json:"transactionId" binding:"max=255"`
}

// PaymentResponse is the payment projection returned to callers.
type PaymentResponse struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID *string         `json:"transactionId"`
	BookingID     int64           `json:"bookingId"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID(),
		Amount:        p.Amount(),
		Method:        p.Method(),
		Status:        string(p.Status()),
		PaymentMethod: p.PaymentMethod(),
		BookingID:     p.BookingID(),
	}
	if p.HasTransactionID() {
		txID := p.TransactionID()
		resp.TransactionID = &txID
	}
	return resp
}

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	processor *application.PaymentProcessor
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(processor *application.PaymentProcessor) *PaymentHandler {
	return &PaymentHandler{processor: processor}
}

// RegisterRoutes registers all payment routes on the given router group.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("", h.ProcessPayment)
		payments.GET("/booking/:bookingId", h.GetPaymentByBooking)
	}
}

// ProcessPayment handles POST /api/payments
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid payment request: bookingId and numeric amount are required, text fields must fit their limits")
		return
	}

	p, err := h.processor.ProcessPayment(c.Request.Context(), application.ProcessPaymentCommand{
		BookingID:     req.BookingID,
		Amount:        *req.Amount,
		Method:        req.Method,
		Status:        req.Status,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toPaymentResponse(p))
}

// GetPaymentByBooking handles GET /api/payments/booking/:bookingId
func (h *PaymentHandler) GetPaymentByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	p, err := h.processor.GetPaymentByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toPaymentResponse(p))
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
)

// InitiatePaymentResponse - ссылка на оплату во внешнем шлюзе
type InitiatePaymentResponse struct {
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentURL string          `json:"paymentUrl"`
}

// GatewayCallbackRequest - form-data колбэка шлюза.
// Имена полей фиксированы протоколом шлюза.
type GatewayCallbackRequest struct {
	OutSum         string `form:"OutSum" validate:"required"`
	InvID          string `form:"InvId" validate:"required"`
	SignatureValue string `form:"SignatureValue" validate:"required"`
}

type PaymentOrderResponse struct {
	OrderID   string                `json:"orderId"`
	Purpose   models.PaymentPurpose `json:"purpose"`
	Amount    decimal.Decimal       `json:"amount"`
	Status    models.PaymentStatus  `json:"status"`
	PaidAt    *time.Time            `json:"paidAt,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

func ToPaymentOrderResponse(order *models.PaymentOrder) *PaymentOrderResponse {
	return &PaymentOrderResponse{
		OrderID:   order.OrderID,
		Purpose:   order.Purpose,
		Amount:    order.Amount,
		Status:    order.Status,
		PaidAt:    order.PaidAt,
		CreatedAt: order.CreatedAt,
	}
}

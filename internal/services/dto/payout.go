package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
)

// CreatePayoutRequest - заявка на вывод средств
type CreatePayoutRequest struct {
	Amount string `json:"amount" validate:"required,inr_amount"`
}

// UpdatePayoutStatusRequest - админский перевод заявки по статусной машине
type UpdatePayoutStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved processing completed rejected"`
	Reason string `json:"reason" validate:"required_if=Status rejected,max=500"`
}

// PayoutListQuery - админская фильтрация заявок
type PayoutListQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending approved processing completed rejected"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type PayoutResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Amount          decimal.Decimal     `json:"amount"`
	Status          models.PayoutStatus `json:"status"`
	BankDetails     *models.BankDetails `json:"bankDetails,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	RequestedAt     time.Time           `json:"requestedAt"`
	ProcessedAt     *time.Time          `json:"processedAt,omitempty"`
}

func ToPayoutResponse(payout *models.PayoutRequest) *PayoutResponse {
	resp := &PayoutResponse{
		ID:              payout.ID,
		UserID:          payout.UserID,
		Amount:          payout.Amount,
		Status:          payout.Status,
		RejectionReason: payout.RejectionReason,
		RequestedAt:     payout.RequestedAt,
		ProcessedAt:     payout.ProcessedAt,
	}
	if details, err := payout.ParseBankDetails(); err == nil {
		resp.BankDetails = details
	}
	return resp
}

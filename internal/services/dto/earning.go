package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
)

// EarningListQuery - фильтры истории начислений
type EarningListQuery struct {
	Type     string `form:"type" validate:"omitempty,oneof=video task referral signup_bonus payout_refund"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type EarningResponse struct {
	ID           string             `json:"id"`
	Type         models.EarningType `json:"type"`
	Amount       decimal.Decimal    `json:"amount"`
	Description  string             `json:"description,omitempty"`
	ReferenceID  *string            `json:"referenceId,omitempty"`
	BalanceAfter decimal.Decimal    `json:"balanceAfter"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func ToEarningResponse(earning *models.Earning) *EarningResponse {
	return &EarningResponse{
		ID:           earning.ID,
		Type:         earning.Type,
		Amount:       earning.Amount,
		Description:  earning.Description,
		ReferenceID:  earning.ReferenceID,
		BalanceAfter: earning.BalanceAfter,
		CreatedAt:    earning.CreatedAt,
	}
}

// EarningsSummaryResponse - итоги по типам начислений
type EarningsSummaryResponse struct {
	Balance     decimal.Decimal            `json:"balance"`
	TotalEarned decimal.Decimal            `json:"totalEarned"`
	ByType      map[string]decimal.Decimal `json:"byType"`
}

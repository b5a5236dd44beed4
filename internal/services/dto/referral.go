package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralEntry - один приглашенный в списке
type ReferralEntry struct {
	Name       string    `json:"name"`
	JoinedAt   time.Time `json:"joinedAt"`
	IsCredited bool      `json:"isCredited"`
}

// ReferralStatsResponse - статистика по реферальной программе
type ReferralStatsResponse struct {
	ReferralCode  string          `json:"referralCode"`
	ReferralLink  string          `json:"referralLink"`
	TotalReferred int64           `json:"totalReferred"`
	TotalCredited int64           `json:"totalCredited"`
	TotalEarned   decimal.Decimal `json:"totalEarned"`
	Referrals     []ReferralEntry `json:"referrals"`
}

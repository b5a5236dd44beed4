package dto

import "github.com/shopspring/decimal"

// DashboardResponse - сводка для админской панели
type DashboardResponse struct {
	UsersByStatus      map[string]int64           `json:"usersByStatus"`
	PendingCompletions int64                      `json:"pendingCompletions"`
	PendingPayouts     int64                      `json:"pendingPayouts"`
	PendingKYC         int64                      `json:"pendingKyc"`
	EarningsByType     map[string]decimal.Decimal `json:"earningsByType"`
	PayoutsByStatus    map[string]decimal.Decimal `json:"payoutsByStatus"`
}

// ReconciliationResponse - сверка леджера с денормализованным балансом.
// expectedBalance = сумма записей леджера - списания под заявки на выплату.
type ReconciliationResponse struct {
	UserID          string          `json:"userId"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	LedgerSum       decimal.Decimal `json:"ledgerSum"`
	PayoutDebits    decimal.Decimal `json:"payoutDebits"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	Drift           decimal.Decimal `json:"drift"`
	Consistent      bool            `json:"consistent"`
}

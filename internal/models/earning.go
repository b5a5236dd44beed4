package models

import (
	"github.com/shopspring/decimal"
)

// Earning - append-only строка леджера. Никогда не обновляется и не удаляется;
// коррекции делаются новыми записями (например payout_refund).
type Earning struct {
	BaseModel
	UserID      string          `gorm:"type:uuid;not null;index"`
	Type        EarningType     `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string

	// ReferenceID связывает запись с источником: completion, referral, payout
	ReferenceID *string `gorm:"type:uuid;index"`

	// BalanceAfter - снапшот баланса после применения записи.
	// Пишется в той же транзакции, что и UPDATE users.balance.
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

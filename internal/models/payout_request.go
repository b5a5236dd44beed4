package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PayoutRequest - заявка на выплату. Сумма удерживается с баланса в момент
// создания заявки (в одной транзакции с условным списанием); отклонение
// возвращает удержание записью payout_refund в леджере. Статус completed
// денег уже не двигает.
type PayoutRequest struct {
	BaseModel
	UserID string          `gorm:"type:uuid;not null;index"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status PayoutStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Снапшот реквизитов на момент заявки
	BankDetails datatypes.JSON `gorm:"type:jsonb;not null"`

	RejectionReason string
	RequestedAt     time.Time `gorm:"not null;default:now()"`
	ProcessedAt     *time.Time
	ProcessedBy     *string `gorm:"type:uuid"`

	User *User `gorm:"foreignKey:UserID"`
}

// ParseBankDetails декодирует снапшот реквизитов заявки
func (p *PayoutRequest) ParseBankDetails() (*BankDetails, error) {
	var details BankDetails
	if err := json.Unmarshal(p.BankDetails, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// payoutTransitions - таблица допустимых переходов статуса заявки
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutStatusPending:    {PayoutStatusApproved, PayoutStatusRejected},
	PayoutStatusApproved:   {PayoutStatusProcessing, PayoutStatusRejected},
	PayoutStatusProcessing: {PayoutStatusCompleted},
}

// CanTransitionPayout проверяет допустимость перехода from -> to.
// completed и rejected - терминальные состояния.
func CanTransitionPayout(from, to PayoutStatus) bool {
	for _, next := range payoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

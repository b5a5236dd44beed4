package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOrder - заказ на оплату во внешнем шлюзе. Префикс OrderID
// ("kyc_", "reactivate_") определяет, какой флоу запускается после
// подтверждения оплаты вебхуком.
type PaymentOrder struct {
	BaseModel
	OrderID    string          `gorm:"uniqueIndex;not null"`
	UserID     string          `gorm:"type:uuid;not null;index"`
	Purpose    PaymentPurpose  `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status     PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	GatewayRef string
	PaidAt     *time.Time
}

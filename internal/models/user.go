package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Name         string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Phone        string   `gorm:"type:varchar(20)"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	// Баланс - денормализованный итог леджера. Мутируется ТОЛЬКО LedgerService
	// и PayoutService, всегда в одной транзакции с соответствующей записью.
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	KYCStatus          KYCStatus          `gorm:"column:kyc_status;type:varchar(20);not null;default:'pending'"`
	KYCDocuments       datatypes.JSON     `gorm:"column:kyc_documents;type:jsonb"`
	Status             UserStatus         `gorm:"type:varchar(20);not null;default:'active'"`
	SuspensionReason   string

	ReferralCode string  `gorm:"type:varchar(12);uniqueIndex;not null"` // формат EP-XXXXXX
	ReferredBy   *string `gorm:"type:uuid;index"`

	// Актуальные банковские реквизиты пользователя. Заявка на выплату копирует
	// их в свою строку, чтобы последующие правки не влияли на заявку.
	BankDetails datatypes.JSON `gorm:"type:jsonb"`

	LastActiveAt *time.Time

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
	Earnings      []Earning      `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// BankDetails - структура jsonb-реквизитов
type BankDetails struct {
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bankName"`
}

// ParseBankDetails декодирует jsonb-колонку. (nil, nil) - реквизиты не заданы.
func (u *User) ParseBankDetails() (*BankDetails, error) {
	if len(u.BankDetails) == 0 {
		return nil, nil
	}
	var details BankDetails
	if err := json.Unmarshal(u.BankDetails, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// HasBankDetails - заданы ли реквизиты (нужны для заявки на выплату)
func (u *User) HasBankDetails() bool {
	details, err := u.ParseBankDetails()
	return err == nil && details != nil && details.AccountNumber != ""
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=10,max=15"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referralCode" validate:"omitempty,referral_code"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest - запрос выхода
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest - смена пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	User         *UserResponse `json:"user"`
}

// UserResponse - безопасное представление пользователя
type UserResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Email              string                    `json:"email"`
	Phone              string                    `json:"phone"`
	Role               models.UserRole           `json:"role"`
	Balance            decimal.Decimal           `json:"balance"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	KYCStatus          models.KYCStatus          `json:"kycStatus"`
	Status             models.UserStatus         `json:"status"`
	SuspensionReason   string                    `json:"suspensionReason,omitempty"`
	ReferralCode       string                    `json:"referralCode"`
	BankDetails        *models.BankDetails       `json:"bankDetails,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// ToUserResponse формирует ответ без чувствительных полей
func ToUserResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		Balance:            user.Balance,
		VerificationStatus: user.VerificationStatus,
		KYCStatus:          user.KYCStatus,
		Status:             user.Status,
		SuspensionReason:   user.SuspensionReason,
		ReferralCode:       user.ReferralCode,
		CreatedAt:          user.CreatedAt,
	}
	if details, err := user.ParseBankDetails(); err == nil && details != nil {
		resp.BankDetails = details
	}
	return resp
}

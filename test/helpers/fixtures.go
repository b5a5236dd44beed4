package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/models"
)

var emailSeq int64

// UniqueEmail генерирует уникальный email, чтобы тесты не мешали друг другу
// на общей БД.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.in", prefix, time.Now().UnixNano(), atomic.AddInt64(&emailSeq, 1))
}

// AuthResult - разобранный ответ /auth/register и /auth/login
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		ReferralCode string `json:"referralCode"`
		Balance      string `json:"balance"`
	} `json:"user"`
	Password string `json:"-"`
}

// RegisterUser регистрирует нового пользователя через API.
// referralCode может быть пустым.
func RegisterUser(t *testing.T, ts *TestServer, prefix, referralCode string) *AuthResult {
	t.Helper()

	password := "super_password123"
	body := map[string]interface{}{
		"name":     "Test User",
		"email":    UniqueEmail(prefix),
		"phone":    "9876543210",
		"password": password,
	}
	if referralCode != "" {
		body["referralCode"] = referralCode
	}

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", body)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("Регистрация провалилась (%d): %s", res.StatusCode, bodyStr)
	}

	var result AuthResult
	if err := json.Unmarshal([]byte(bodyStr), &result); err != nil {
		t.Fatalf("Не удалось разобрать ответ регистрации: %v", err)
	}
	result.Password = password
	return &result
}

// LoginUser логинится под существующим пользователем.
func LoginUser(t *testing.T, ts *TestServer, email, password string) *AuthResult {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Логин провалился (%d): %s", res.StatusCode, bodyStr)
	}

	var result AuthResult
	if err := json.Unmarshal([]byte(bodyStr), &result); err != nil {
		t.Fatalf("Не удалось разобрать ответ логина: %v", err)
	}
	result.Password = password
	return &result
}

// RegisterVerifiedUser регистрирует пользователя и сразу одобряет KYC
// напрямую в БД (для тестов заданий и выплат, где сам KYC-флоу не важен).
func RegisterVerifiedUser(t *testing.T, ts *TestServer, prefix string) *AuthResult {
	t.Helper()

	user := RegisterUser(t, ts, prefix, "")
	MarkKYCApproved(t, ts.DB, user.User.ID)
	return user
}

// MarkKYCApproved одобряет KYC напрямую в БД, минуя платежный флоу.
// Реферальный бонус при этом НЕ начисляется.
func MarkKYCApproved(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()

	err := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"verification_status": models.VerificationVerified,
		"kyc_status":          models.KYCStatusApproved,
	}).Error
	if err != nil {
		t.Fatalf("Не удалось одобрить KYC в БД: %v", err)
	}
}

// RegisterAdmin регистрирует пользователя, повышает до админа в БД
// и перелогинивается, чтобы токен нес роль admin.
func RegisterAdmin(t *testing.T, ts *TestServer) *AuthResult {
	t.Helper()

	user := RegisterUser(t, ts, "admin", "")
	err := ts.DB.Model(&models.User{}).Where("id = ?", user.User.ID).Update("role", models.UserRoleAdmin).Error
	if err != nil {
		t.Fatalf("Не удалось повысить пользователя до админа: %v", err)
	}
	return LoginUser(t, ts, user.User.Email, user.Password)
}

// CreateTask создает активное задание напрямую в БД.
func CreateTask(t *testing.T, db *gorm.DB, title string, reward decimal.Decimal) models.Task {
	t.Helper()

	task := models.Task{
		Title:            title,
		Description:      "Test task description",
		Category:         models.TaskCategoryAppInstall,
		Reward:           reward,
		TimeLimitMinutes: 60,
		IsActive:         true,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Не удалось создать тестовое задание: %v", err)
	}
	return task
}

// UserBalance читает текущий баланс пользователя из БД.
func UserBalance(t *testing.T, db *gorm.DB, userID string) decimal.Decimal {
	t.Helper()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("Не удалось прочитать пользователя: %v", err)
	}
	return user.Balance
}

// SetBankDetails проставляет банковские реквизиты через API.
func SetBankDetails(t *testing.T, ts *TestServer, token string) {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, "PUT", "/api/v1/users/me/bank-details", token, map[string]interface{}{
		"accountHolder": "Test User",
		"accountNumber": "12345678901",
		"ifsc":          "HDFC0001234",
		"bankName":      "HDFC Bank",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Не удалось сохранить реквизиты (%d): %s", res.StatusCode, bodyStr)
	}
}

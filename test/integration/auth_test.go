package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

// TestRegister_SignupBonus - регистрация начисляет приветственный бонус
// одной записью леджера, баланс равен бонусу.
func TestRegister_SignupBonus(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "signup", "")

	assert.NotEmpty(t, user.AccessToken)
	assert.NotEmpty(t, user.RefreshToken)
	assert.Regexp(t, `^EP-[A-Z0-9]{6}$`, user.User.ReferralCode)

	balance := helpers.UserBalance(t, ts.DB, user.User.ID)
	assert.True(t, models.SignupBonusAmount.Equal(balance),
		"баланс после регистрации: %s", balance)

	var earnings []models.Earning
	err := ts.DB.Where("user_id = ?", user.User.ID).Find(&earnings).Error
	assert.NoError(t, err)
	assert.Len(t, earnings, 1)
	assert.Equal(t, models.EarningTypeSignupBonus, earnings[0].Type)
	assert.True(t, models.SignupBonusAmount.Equal(earnings[0].Amount))
	assert.True(t, models.SignupBonusAmount.Equal(earnings[0].BalanceAfter))
}

// TestRegister_DuplicateEmail - повторная регистрация на тот же email
func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "dup", "")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Second User",
		"email":    user.User.Email,
		"phone":    "9876543210",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "Email is already registered")
}

// TestRegister_WithReferralCode - регистрация по коду создает связь,
// но бонус реферера НЕ начисляется до одобрения KYC.
func TestRegister_WithReferralCode(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	referrer := helpers.RegisterUser(t, ts, "referrer", "")
	referred := helpers.RegisterUser(t, ts, "referred", referrer.User.ReferralCode)

	var referral models.Referral
	err := ts.DB.Where("referred_id = ?", referred.User.ID).First(&referral).Error
	assert.NoError(t, err)
	assert.Equal(t, referrer.User.ID, referral.ReferrerID)
	assert.False(t, referral.IsEarningCredited)

	// Баланс реферера не изменился
	balance := helpers.UserBalance(t, ts.DB, referrer.User.ID)
	assert.True(t, models.SignupBonusAmount.Equal(balance))
}

// TestRegister_UnknownReferralCode - несуществующий код отклоняется
func TestRegister_UnknownReferralCode(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":         "Orphan",
		"email":        helpers.UniqueEmail("orphan"),
		"phone":        "9876543210",
		"password":     "super_password123",
		"referralCode": "EP-ZZZZZZ",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Unknown referral code")
}

// TestLogin_BadPassword - неверный пароль
func TestLogin_BadPassword(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "badpass", "")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.User.Email,
		"password": "definitely-wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid email or password")
}

// TestLogin_BannedBlocked_SuspendedAllowed - бан закрывает вход полностью,
// приостановка - нет (пользователь должен дойти до оплаты реактивации).
func TestLogin_BannedBlocked_SuspendedAllowed(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)

	banned := helpers.RegisterUser(t, ts, "banned", "")
	err := ts.DB.Model(&models.User{}).Where("id = ?", banned.User.ID).
		Update("status", models.UserStatusBanned).Error
	assert.NoError(t, err)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    banned.User.Email,
		"password": banned.Password,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Account is banned")

	suspended := helpers.RegisterUser(t, ts, "suspended", "")
	err = ts.DB.Model(&models.User{}).Where("id = ?", suspended.User.ID).
		Update("status", models.UserStatusSuspended).Error
	assert.NoError(t, err)

	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    suspended.User.Email,
		"password": suspended.Password,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestRefresh_Rotation - refresh выдает новую пару, старый токен умирает
func TestRefresh_Rotation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "refresh", "")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", map[string]interface{}{
		"refreshToken": user.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "accessToken")

	// Старый refresh-токен отозван ротацией
	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", map[string]interface{}{
		"refreshToken": user.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestChangePassword - смена пароля отзывает refresh-токены
func TestChangePassword(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "chpass", "")

	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/change-password", user.AccessToken, map[string]interface{}{
		"currentPassword": user.Password,
		"newPassword":     "brand_new_password1",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Старый refresh отозван
	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", map[string]interface{}{
		"refreshToken": user.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Новый пароль работает
	helpers.LoginUser(t, ts, user.User.Email, "brand_new_password1")
}

// TestProtectedRoute_NoToken - запрос без токена отклоняется
func TestProtectedRoute_NoToken(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	res, _ := ts.SendRequest(t, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

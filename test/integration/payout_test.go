package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

// TestCreatePayout_RequiresBankDetails
func TestCreatePayout_RequiresBankDetails(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "nobank")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "500.00",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Bank details are required")
}

// TestCreatePayout_BelowMinimum
func TestCreatePayout_BelowMinimum(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "belowmin")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "499.99",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Minimum payout")
}

// TestCreatePayout_HoldsBalance - заявка сразу удерживает сумму с баланса,
// но НЕ пишет строку в леджер.
func TestCreatePayout_HoldsBalance(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "hold")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "600.00",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"pending"`)

	// 1000 бонуса - 600 удержания
	balance := helpers.UserBalance(t, ts.DB, user.User.ID)
	assert.Equal(t, "400", balance.String())

	// Снапшот реквизитов лег в заявку
	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)
	details, err := payout.ParseBankDetails()
	assert.NoError(t, err)
	assert.Equal(t, "HDFC0001234", details.IFSC)

	// Удержание не является записью леджера
	var ledgerCount int64
	ts.DB.Model(&models.Earning{}).Where("user_id = ?", user.User.ID).Count(&ledgerCount)
	assert.Equal(t, int64(1), ledgerCount) // только signup_bonus
}

// TestCreatePayout_InsufficientBalance - нельзя запросить больше остатка
func TestCreatePayout_InsufficientBalance(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "insufficient")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "1500.00",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Insufficient balance")

	// Баланс не тронут, заявка не создана
	assert.Equal(t, "1000", helpers.UserBalance(t, ts.DB, user.User.ID).String())
	var count int64
	ts.DB.Model(&models.PayoutRequest{}).Where("user_id = ?", user.User.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestRejectPayout_Refunds - отклонение возвращает удержание записью
// payout_refund, баланс восстанавливается.
func TestRejectPayout_Refunds(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "refund")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "700.00",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "300", helpers.UserBalance(t, ts.DB, user.User.ID).String())

	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)

	res, bodyStr := ts.SendRequest(t, "PUT", "/api/v1/admin/payouts/"+payout.ID, admin.AccessToken, map[string]interface{}{
		"status": "rejected",
		"reason": "Account number does not match holder name",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"rejected"`)

	assert.Equal(t, "1000", helpers.UserBalance(t, ts.DB, user.User.ID).String())

	var refund models.Earning
	err := ts.DB.Where("user_id = ? AND type = ?", user.User.ID, models.EarningTypePayoutRefund).First(&refund).Error
	assert.NoError(t, err)
	assert.Equal(t, "700", refund.Amount.String())
}

// TestPayoutTransitions - допустимые и запрещенные переходы статусов
func TestPayoutTransitions(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "transitions")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "500.00",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)
	payoutPath := "/api/v1/admin/payouts/" + payout.ID

	// pending -> completed запрещен
	res, bodyStr := ts.SendRequest(t, "PUT", payoutPath, admin.AccessToken, map[string]interface{}{"status": "completed"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "Cannot move payout")

	// pending -> approved -> processing -> completed
	for _, status := range []string{"approved", "processing", "completed"} {
		res, bodyStr = ts.SendRequest(t, "PUT", payoutPath, admin.AccessToken, map[string]interface{}{"status": status})
		assert.Equal(t, http.StatusOK, res.StatusCode, "переход в %s: %s", status, bodyStr)
	}

	// completed - терминальный статус
	res, _ = ts.SendRequest(t, "PUT", payoutPath, admin.AccessToken, map[string]interface{}{"status": "rejected", "reason": "too late"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Успешная выплата денег не возвращает
	assert.Equal(t, "500", helpers.UserBalance(t, ts.DB, user.User.ID).String())
}

// TestRejectPayout_RequiresReason - валидатор требует причину отклонения
func TestRejectPayout_RequiresReason(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "noreason")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{
		"amount": "500.00",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)

	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/payouts/"+payout.ID, admin.AccessToken, map[string]interface{}{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

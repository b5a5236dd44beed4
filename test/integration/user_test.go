package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

// TestGetProfile
func TestGetProfile(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "profile", "")

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/users/me", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, user.User.Email)
	assert.Contains(t, bodyStr, user.User.ReferralCode)
	assert.NotContains(t, bodyStr, "passwordHash")
	assert.NotContains(t, bodyStr, "password_hash")
}

// TestUpdateBankDetails_Validation - IFSC и номер счета проходят валидацию
func TestUpdateBankDetails_Validation(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "bankval", "")

	res, bodyStr := ts.SendRequest(t, "PUT", "/api/v1/users/me/bank-details", user.AccessToken, map[string]interface{}{
		"accountHolder": "Test User",
		"accountNumber": "12345678901",
		"ifsc":          "not-an-ifsc",
		"bankName":      "HDFC Bank",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid IFSC code")

	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/users/me", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "HDFC0001234")
}

// TestSubmitKYC - подача документов переводит kyc_status в submitted
func TestSubmitKYC(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "kycsubmit", "")

	res, _ := ts.SendRequest(t, "POST", "/api/v1/kyc/submit", user.AccessToken, map[string]interface{}{
		"documentType":   "aadhaar",
		"documentNumber": "1234-5678-9012",
		"documentImages": []string{"proofs/kyc/front.png", "proofs/kyc/back.png"},
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var reloaded models.User
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.KYCStatusSubmitted, reloaded.KYCStatus)

	// Повторная подача при рассмотрении - конфликт
	res, _ = ts.SendRequest(t, "POST", "/api/v1/kyc/submit", user.AccessToken, map[string]interface{}{
		"documentType":   "pan",
		"documentNumber": "ABCDE1234F",
		"documentImages": []string{"proofs/kyc/pan.png"},
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

// TestReferralStats - статистика реферера
func TestReferralStats(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	referrer := helpers.RegisterUser(t, ts, "stats_referrer", "")
	first := helpers.RegisterUser(t, ts, "stats_first", referrer.User.ReferralCode)
	helpers.RegisterUser(t, ts, "stats_second", referrer.User.ReferralCode)

	// Первый приглашенный прошел KYC
	res, _ := ts.SendRequest(t, "PUT", "/api/v1/admin/users/"+first.User.ID+"/verification", admin.AccessToken, map[string]interface{}{"action": "approve"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/users/me/referrals", referrer.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var stats struct {
		ReferralCode  string `json:"referralCode"`
		ReferralLink  string `json:"referralLink"`
		TotalReferred int64  `json:"totalReferred"`
		TotalCredited int64  `json:"totalCredited"`
		TotalEarned   string `json:"totalEarned"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &stats))
	assert.Equal(t, referrer.User.ReferralCode, stats.ReferralCode)
	assert.Contains(t, stats.ReferralLink, "ref="+referrer.User.ReferralCode)
	assert.Equal(t, int64(2), stats.TotalReferred)
	assert.Equal(t, int64(1), stats.TotalCredited)
	assert.Equal(t, "49", stats.TotalEarned)
}

// TestEarningsSummary - сводка по типам начислений
func TestEarningsSummary(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "summary", "")

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/earnings/summary", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var summary struct {
		Balance     string            `json:"balance"`
		TotalEarned string            `json:"totalEarned"`
		ByType      map[string]string `json:"byType"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &summary))
	assert.Equal(t, "1000", summary.Balance)
	assert.Equal(t, "1000", summary.TotalEarned)
	assert.Equal(t, "1000", summary.ByType["signup_bonus"])
}

// TestEarningsList_FilterByType
func TestEarningsList_FilterByType(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "earnlist", "")

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/earnings?type=signup_bonus", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"type":"signup_bonus"`)
	assert.Contains(t, bodyStr, `"total":1`)

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/earnings?type=task", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"total":0`)
}

// TestNotifications_ReadFlow - уведомление от отклонения выплаты, пометка
// прочитанным, счетчик непрочитанных.
func TestNotifications_ReadFlow(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "notif")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{"amount": "500.00"})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/payouts/"+payout.ID, admin.AccessToken, map[string]interface{}{
		"status": "rejected", "reason": "bad details",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/notifications", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Notifications []struct {
			ID     string `json:"id"`
			IsRead bool   `json:"isRead"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unreadCount"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.NotEmpty(t, list.Notifications)
	assert.Equal(t, int64(1), list.UnreadCount)

	notificationID := list.Notifications[0].ID
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/notifications/"+notificationID+"/read", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/notifications", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Equal(t, int64(0), list.UnreadCount)

	// Чужое уведомление пометить нельзя
	stranger := helpers.RegisterUser(t, ts, "stranger", "")
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/notifications/"+notificationID+"/read", stranger.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

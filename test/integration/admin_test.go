package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

// TestAdminRoutes_RequireAdminRole - обычный пользователь в админку не попадает
func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "notadmin", "")

	res, _ := ts.SendRequest(t, "GET", "/api/v1/admin/users", user.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, "GET", "/api/v1/admin/dashboard", user.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestAdminApproveKYC_CreditsReferralOnce - одобрение KYC админом начисляет
// реферальный бонус, повторное одобрение - идемпотентно.
func TestAdminApproveKYC_CreditsReferralOnce(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	referrer := helpers.RegisterUser(t, ts, "adm_referrer", "")
	referred := helpers.RegisterUser(t, ts, "adm_referred", referrer.User.ReferralCode)

	verificationPath := "/api/v1/admin/users/" + referred.User.ID + "/verification"

	res, _ := ts.SendRequest(t, "PUT", verificationPath, admin.AccessToken, map[string]interface{}{"action": "approve"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	wantBalance := models.SignupBonusAmount.Add(models.ReferralBonusAmount)
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, referrer.User.ID)))

	// Повторное одобрение не дублирует бонус
	res, _ = ts.SendRequest(t, "PUT", verificationPath, admin.AccessToken, map[string]interface{}{"action": "approve"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, referrer.User.ID)))
}

// TestAdminRejectKYC
func TestAdminRejectKYC(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterUser(t, ts, "kycreject", "")

	res, _ := ts.SendRequest(t, "PUT", "/api/v1/admin/users/"+user.User.ID+"/verification", admin.AccessToken, map[string]interface{}{
		"action": "reject",
		"reason": "Document number is invalid",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var reloaded models.User
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.KYCStatusRejected, reloaded.KYCStatus)
}

// TestAdminSuspendReactivate - ручная приостановка и ручная реактивация
func TestAdminSuspendReactivate(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "suspadm")

	suspendPath := "/api/v1/admin/users/" + user.User.ID + "/suspend"
	res, _ := ts.SendRequest(t, "PUT", suspendPath, admin.AccessToken, map[string]interface{}{"reason": "Bot-like activity"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var reloaded models.User
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.UserStatusSuspended, reloaded.Status)
	assert.Equal(t, "Bot-like activity", reloaded.SuspensionReason)

	// Повторная приостановка - конфликт
	res, _ = ts.SendRequest(t, "PUT", suspendPath, admin.AccessToken, map[string]interface{}{"reason": "again"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/users/"+user.User.ID+"/reactivate", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.UserStatusActive, reloaded.Status)
}

// TestAdminTaskCRUD
func TestAdminTaskCRUD(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/admin/tasks", admin.AccessToken, map[string]interface{}{
		"title":       "Install the partner app",
		"description": "Install, open, keep for 3 days",
		"category":    "app_install",
		"reward":      "35.00",
		"taskLink":    "https://play.google.com/store/apps/details?id=example",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.NotEmpty(t, created.ID)

	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/admin/tasks/"+created.ID, admin.AccessToken, map[string]interface{}{
		"title": "Install the partner app (updated)",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "(updated)")

	res, _ = ts.SendRequest(t, "DELETE", "/api/v1/admin/tasks/"+created.ID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var task models.Task
	assert.NoError(t, ts.DB.First(&task, "id = ?", created.ID).Error)
	assert.False(t, task.IsActive)

	// Невалидная сумма награды отбивается валидатором
	res, _ = ts.SendRequest(t, "POST", "/api/v1/admin/tasks", admin.AccessToken, map[string]interface{}{
		"title":    "Bad reward",
		"category": "review",
		"reward":   "-5",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestReconciliation_Consistent - после цепочки операций баланс сходится
// с леджером за вычетом выплат.
func TestReconciliation_Consistent(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "reconcile")
	helpers.SetBankDetails(t, ts, user.AccessToken)

	// Заявка на выплату, затем отклонение с возвратом
	res, _ := ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{"amount": "500.00"})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var payout models.PayoutRequest
	assert.NoError(t, ts.DB.Where("user_id = ?", user.User.ID).First(&payout).Error)
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/payouts/"+payout.ID, admin.AccessToken, map[string]interface{}{
		"status": "rejected", "reason": "test",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Вторая заявка остается на удержании
	res, _ = ts.SendRequest(t, "POST", "/api/v1/payouts", user.AccessToken, map[string]interface{}{"amount": "600.00"})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/admin/users/"+user.User.ID+"/reconciliation", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var report struct {
		StoredBalance   string `json:"storedBalance"`
		LedgerSum       string `json:"ledgerSum"`
		PayoutDebits    string `json:"payoutDebits"`
		ExpectedBalance string `json:"expectedBalance"`
		Drift           string `json:"drift"`
		Consistent      bool   `json:"consistent"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &report))
	assert.True(t, report.Consistent, "сверка разошлась: %s", bodyStr)
	// Леджер: 1000 бонус + 500 возврат; выплаты: 500 + 600
	assert.Equal(t, "1500", report.LedgerSum)
	assert.Equal(t, "1100", report.PayoutDebits)
	assert.Equal(t, "400", report.StoredBalance)
}

// TestAdminDashboard
func TestAdminDashboard(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/admin/dashboard", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "usersByStatus")
	assert.Contains(t, bodyStr, "pendingCompletions")
	assert.Contains(t, bodyStr, "pendingPayouts")
}

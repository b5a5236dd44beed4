package integration_test

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/config"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

// callbackSignature - подпись колбэка так, как ее считает шлюз
func callbackSignature(outSum, orderID string) string {
	password2 := config.GetConfig().Gateway.Password2
	hash := md5.Sum([]byte(fmt.Sprintf("%s:%s:%s", outSum, orderID, password2)))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

func initiateKYCOrder(t *testing.T, ts *helpers.TestServer, token string) (orderID, outSum string) {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payments/kyc", token, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("Не удалось создать KYC-заказ (%d): %s", res.StatusCode, bodyStr)
	}

	var order struct {
		OrderID    string `json:"orderId"`
		Amount     string `json:"amount"`
		PaymentURL string `json:"paymentUrl"`
	}
	if err := json.Unmarshal([]byte(bodyStr), &order); err != nil {
		t.Fatalf("Не удалось разобрать ответ заказа: %v", err)
	}
	assert.True(t, strings.HasPrefix(order.OrderID, "kyc_"))
	assert.Contains(t, order.PaymentURL, "SignatureValue=")
	return order.OrderID, models.KYCFeeAmount.StringFixed(2)
}

func sendCallback(t *testing.T, ts *helpers.TestServer, orderID, outSum, signature string) (*http.Response, string) {
	t.Helper()

	form := url.Values{}
	form.Set("OutSum", outSum)
	form.Set("InvId", orderID)
	form.Set("SignatureValue", signature)
	return ts.SendForm(t, "/api/v1/payments/webhook", form)
}

// TestKYCPaymentFlow - оплата KYC через вебхук одобряет верификацию
// и начисляет бонус рефереру ровно один раз.
func TestKYCPaymentFlow(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	referrer := helpers.RegisterUser(t, ts, "kyc_referrer", "")
	referred := helpers.RegisterUser(t, ts, "kyc_referred", referrer.User.ReferralCode)

	orderID, outSum := initiateKYCOrder(t, ts, referred.AccessToken)

	res, bodyStr := sendCallback(t, ts, orderID, outSum, callbackSignature(outSum, orderID))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "OK"+orderID, bodyStr)

	var user models.User
	assert.NoError(t, ts.DB.First(&user, "id = ?", referred.User.ID).Error)
	assert.Equal(t, models.KYCStatusApproved, user.KYCStatus)
	assert.Equal(t, models.VerificationVerified, user.VerificationStatus)

	// Бонус реферера начислен
	wantBalance := models.SignupBonusAmount.Add(models.ReferralBonusAmount)
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, referrer.User.ID)))

	var referral models.Referral
	assert.NoError(t, ts.DB.Where("referred_id = ?", referred.User.ID).First(&referral).Error)
	assert.True(t, referral.IsEarningCredited)

	// Повторный колбэк - тоже 200, но второй раз деньги не двигаются
	res, bodyStr = sendCallback(t, ts, orderID, outSum, callbackSignature(outSum, orderID))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "OK"+orderID, bodyStr)
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, referrer.User.ID)))

	var referralEarnings int64
	ts.DB.Model(&models.Earning{}).
		Where("user_id = ? AND type = ?", referrer.User.ID, models.EarningTypeReferral).
		Count(&referralEarnings)
	assert.Equal(t, int64(1), referralEarnings)
}

// TestWebhook_BadSignature - битая подпись: шлюзу отвечаем 200,
// но заказ остается pending и KYC не одобряется.
func TestWebhook_BadSignature(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "badsig", "")
	orderID, outSum := initiateKYCOrder(t, ts, user.AccessToken)

	res, _ := sendCallback(t, ts, orderID, outSum, "DEADBEEF")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var order models.PaymentOrder
	assert.NoError(t, ts.DB.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.PaymentStatusPending, order.Status)

	var reloaded models.User
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.KYCStatusPending, reloaded.KYCStatus)
}

// TestWebhook_AmountMismatch - подпись верная, но сумма не сходится
func TestWebhook_AmountMismatch(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "badsum", "")
	orderID, _ := initiateKYCOrder(t, ts, user.AccessToken)

	res, _ := sendCallback(t, ts, orderID, "1.00", callbackSignature("1.00", orderID))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var order models.PaymentOrder
	assert.NoError(t, ts.DB.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
}

// TestReactivationFlow - приостановленный аккаунт платит сбор и оживает
func TestReactivationFlow(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "reactivate")

	res, _ := ts.SendRequest(t, "PUT", "/api/v1/admin/users/"+user.User.ID+"/suspend", admin.AccessToken, map[string]interface{}{
		"reason": "Suspicious proof submissions",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Активный аккаунт реактивацию купить не может, приостановленный - может
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payments/reactivation", user.AccessToken, nil)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var order struct {
		OrderID string `json:"orderId"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &order))
	assert.True(t, strings.HasPrefix(order.OrderID, "reactivate_"))

	outSum := models.ReactivationFeeAmount.StringFixed(2)
	res, _ = sendCallback(t, ts, order.OrderID, outSum, callbackSignature(outSum, order.OrderID))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var reloaded models.User
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", user.User.ID).Error)
	assert.Equal(t, models.UserStatusActive, reloaded.Status)
	assert.Empty(t, reloaded.SuspensionReason)
}

// TestInitiateKYC_AlreadyApproved
func TestInitiateKYC_AlreadyApproved(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "kycdone")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/payments/kyc", user.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "already approved")
}

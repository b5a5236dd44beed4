package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testGateway() *Gateway {
	return NewGateway("merchant", "pass1", "pass2", "https://gateway.test/pay")
}

func TestPaymentURL(t *testing.T) {
	g := testGateway()
	raw := g.PaymentURL("kyc_abc", decimal.NewFromFloat(99), "KYC fee")

	assert.True(t, strings.HasPrefix(raw, "https://gateway.test/pay?"))

	parsed, err := url.Parse(raw)
	assert.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "merchant", q.Get("MrchLogin"))
	assert.Equal(t, "99.00", q.Get("OutSum"))
	assert.Equal(t, "kyc_abc", q.Get("InvId"))
	assert.Equal(t, "KYC fee", q.Get("Desc"))

	// md5("merchant:99.00:kyc_abc:pass1")
	assert.Equal(t, "788ACAC5FA820290DB8EEEE16C8C9C56", q.Get("SignatureValue"))
}

func TestVerifyCallback(t *testing.T) {
	g := testGateway()

	// md5("99.00:kyc_abc:pass2")
	valid := "3311FF1198A7915FF647C90C9BBCDC1E"

	assert.True(t, g.VerifyCallback("99.00", "kyc_abc", valid))
	// Регистр подписи не важен
	assert.True(t, g.VerifyCallback("99.00", "kyc_abc", strings.ToLower(valid)))

	assert.False(t, g.VerifyCallback("99.00", "kyc_abc", "DEADBEEF"))
	assert.False(t, g.VerifyCallback("1.00", "kyc_abc", valid))
	assert.False(t, g.VerifyCallback("99.00", "kyc_other", valid))
}

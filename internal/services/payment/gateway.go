package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Gateway - интеграция с платежным шлюзом (Robokassa-совместимый протокол).
// Подпись платежа: md5(login:amount:order:password1), подпись колбэка:
// md5(amount:order:password2). Суммы всегда с двумя знаками.
type Gateway struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
}

func NewGateway(merchantLogin, password1, password2, baseURL string) *Gateway {
	return &Gateway{
		MerchantLogin: merchantLogin,
		Password1:     password1,
		Password2:     password2,
		BaseURL:       baseURL,
	}
}

// PaymentURL создает ссылку на оплату заказа.
func (g *Gateway) PaymentURL(orderID string, amount decimal.Decimal, description string) string {
	outSum := amount.StringFixed(2)
	params := url.Values{}
	params.Set("MrchLogin", g.MerchantLogin)
	params.Set("OutSum", outSum)
	params.Set("InvId", orderID)
	params.Set("Desc", description)
	params.Set("SignatureValue", g.paymentSignature(orderID, outSum))
	params.Set("Culture", "en")

	return fmt.Sprintf("%s?%s", g.BaseURL, params.Encode())
}

func (g *Gateway) paymentSignature(orderID, outSum string) string {
	plain := fmt.Sprintf("%s:%s:%s:%s", g.MerchantLogin, outSum, orderID, g.Password1)
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// VerifyCallback проверяет подпись уведомления об оплате.
func (g *Gateway) VerifyCallback(outSum, orderID, receivedSignature string) bool {
	plain := fmt.Sprintf("%s:%s:%s", outSum, orderID, g.Password2)
	hash := md5.Sum([]byte(plain))
	expected := hex.EncodeToString(hash[:])
	return strings.EqualFold(expected, receivedSignature)
}

package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// Реферальный код платформы: EP- и шесть символов A-Z0-9
	referralCodeRe = regexp.MustCompile(`^EP-[A-Z0-9]{6}$`)

	// IFSC: 4 буквы банка, ноль, 6 символов отделения
	ifscRe = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// registerCustomRules регистрирует доменные правила валидации.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("referral_code", validateReferralCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("ifsc", validateIFSC); err != nil {
		return err
	}
	return v.RegisterValidation("inr_amount", validateINRAmount)
}

func validateReferralCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true // пустой код допустим: поле опциональное, required проверяется отдельно
	}
	return referralCodeRe.MatchString(code)
}

func validateIFSC(fl validator.FieldLevel) bool {
	return ifscRe.MatchString(fl.Field().String())
}

// validateINRAmount принимает строку суммы: положительная, максимум 2 знака после запятой
func validateINRAmount(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	if !amount.IsPositive() {
		return false
	}
	return amount.Exponent() >= -2
}

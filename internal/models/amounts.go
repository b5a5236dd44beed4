package models

import "github.com/shopspring/decimal"

// Фиксированные суммы платформы, в рупиях
var (
	// SignupBonusAmount начисляется новому пользователю при регистрации
	SignupBonusAmount = decimal.NewFromInt(1000)

	// ReferralBonusAmount начисляется рефереру после одобрения KYC приглашенного
	ReferralBonusAmount = decimal.NewFromFloat(49.00)

	// KYCFeeAmount - стоимость прохождения KYC-верификации
	KYCFeeAmount = decimal.NewFromFloat(99.00)

	// ReactivationFeeAmount - стоимость снятия приостановки аккаунта
	ReactivationFeeAmount = decimal.NewFromFloat(49.00)

	// MinPayoutAmount - минимальная сумма заявки на выплату
	MinPayoutAmount = decimal.NewFromInt(500)
)

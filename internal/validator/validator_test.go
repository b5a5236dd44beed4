package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type bankForm struct {
	IFSC string `json:"ifsc" validate:"required,ifsc"`
}

type amountForm struct {
	Amount string `json:"amount" validate:"required,inr_amount"`
}

type referralForm struct {
	Code string `json:"referralCode" validate:"omitempty,referral_code"`
}

func TestIFSCRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&bankForm{IFSC: "HDFC0001234"}))
	assert.NoError(t, v.Validate(&bankForm{IFSC: "SBIN0ABC123"}))

	for _, bad := range []string{"hdfc0001234", "HDFC1001234", "HDFC000123", "HDFC00012345", ""} {
		err := v.Validate(&bankForm{IFSC: bad})
		assert.Error(t, err, "IFSC %q должен быть отклонен", bad)
	}
}

func TestINRAmountRule(t *testing.T) {
	v := New()

	for _, good := range []string{"500", "500.00", "0.01", "1234.5"} {
		assert.NoError(t, v.Validate(&amountForm{Amount: good}), "сумма %q должна пройти", good)
	}

	for _, bad := range []string{"0", "-5", "10.001", "abc", ""} {
		err := v.Validate(&amountForm{Amount: bad})
		assert.Error(t, err, "сумма %q должна быть отклонена", bad)
	}
}

func TestReferralCodeRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&referralForm{Code: "EP-A1B2C3"}))
	assert.NoError(t, v.Validate(&referralForm{Code: ""})) // опциональное поле

	for _, bad := range []string{"EP-a1b2c3", "XX-A1B2C3", "EP-A1B2C", "EP-A1B2C3D"} {
		err := v.Validate(&referralForm{Code: bad})
		assert.Error(t, err, "код %q должен быть отклонен", bad)
	}
}

func TestValidationError_FieldNamesFromJSONTags(t *testing.T) {
	v := New()

	err := v.Validate(&bankForm{IFSC: "bad"})
	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, vErr.Errors, "ifsc")
	assert.Equal(t, "Invalid IFSC code", vErr.Errors["ifsc"])
}

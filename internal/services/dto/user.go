package dto

// UpdateBankDetailsRequest - сохранение банковских реквизитов
type UpdateBankDetailsRequest struct {
	AccountHolder string `json:"accountHolder" validate:"required,min=2,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,min=9,max=18,numeric"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`
	BankName      string `json:"bankName" validate:"required,min=2,max=100"`
}

// SubmitKYCRequest - подача документов на верификацию
type SubmitKYCRequest struct {
	DocumentType   string   `json:"documentType" validate:"required,oneof=aadhaar pan passport"`
	DocumentNumber string   `json:"documentNumber" validate:"required,min=4,max=30"`
	DocumentImages []string `json:"documentImages" validate:"required,min=1,max=4,dive,required"`
}

// UserListQuery - админская фильтрация пользователей
type UserListQuery struct {
	Status    string `form:"status" validate:"omitempty,oneof=active suspended banned"`
	KYCStatus string `form:"kycStatus" validate:"omitempty,oneof=pending submitted approved rejected"`
	Search    string `form:"search" validate:"omitempty,max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// VerificationDecisionRequest - решение админа по KYC
type VerificationDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"required_if=Action reject,max=500"`
}

// SuspendRequest - блокировка аккаунта
type SuspendRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

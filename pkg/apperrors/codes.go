package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики (используются фабриками)
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeLimitExceeded     ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation  ErrorCode = "INVALID_OPERATION"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Аутентификация и авторизация (сквозные)
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	// Денежные операции
	CodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
)

// ErrorType - машиночитаемый тег для фронтенда. По нему UI выбирает,
// какой call-to-action показать (оплатить реактивацию, пройти KYC и т.д.)
const (
	ErrorTypeSuspended  = "suspended"
	ErrorTypeKYCPending = "kyc_pending"
)

package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные функции (оборачивание ошибок из репозиториев)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// InternalError - фабрика для внутренних ошибок (500)
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// ValidationError - фабрика для ошибок валидации (400) с картой полей
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).
		WithDetails(details)
}

// NewBadRequestError - фабрика для прочих 400
func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeInvalidOperation, "request", message, http.StatusBadRequest)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (409).
// Используется, когда условный UPDATE не затронул ни одной строки
// (например, повторный approve уже одобренной заявки).
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidTransition - фабрика для запрещенных переходов статусов (409)
func ErrInvalidTransition(domain, message string) *AppError {
	return New(CodeInvalidTransition, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные переменные (частые, статичные ошибки)
// =========================================================================

// ErrInvalidCredentials - неверная пара email/пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - невалидный или истекший токен
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже зарегистрирован
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email is already registered",
	http.StatusConflict,
)

// ErrWeakPassword - пароль не проходит требования сложности
var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrAccountBanned - забаненный аккаунт не может логиниться
var ErrAccountBanned = New(
	CodeForbidden,
	"account",
	"Account is banned",
	http.StatusForbidden,
)

// --- Гейты доступа (errorType потребляется фронтендом) ---

// ErrAccountSuspended - аккаунт приостановлен: задания и выплаты запрещены,
// пока не оплачена реактивация
var ErrAccountSuspended = New(
	CodeForbidden,
	"account",
	"Account is suspended. Pay the reactivation fee to continue.",
	http.StatusForbidden,
).WithErrorType(ErrorTypeSuspended)

// ErrKYCPending - верификация/KYC не завершены: задания и выплаты запрещены
var ErrKYCPending = New(
	CodeForbidden,
	"account",
	"KYC verification is not complete",
	http.StatusForbidden,
).WithErrorType(ErrorTypeKYCPending)

// --- Деньги ---

// ErrInsufficientBalance - недостаточно средств для списания
var ErrInsufficientBalance = New(
	CodeInsufficientBalance,
	"ledger",
	"Insufficient balance",
	http.StatusBadRequest,
)

// ErrBankDetailsMissing - не заполнены банковские реквизиты
var ErrBankDetailsMissing = New(
	CodeInvalidOperation,
	"payout",
	"Bank details are required before requesting a payout",
	http.StatusBadRequest,
)

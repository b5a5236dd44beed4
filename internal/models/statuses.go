package models

type UserRole string
type UserStatus string
type VerificationStatus string
type KYCStatus string
type TaskCategory string
type CompletionStatus string
type EarningType string
type PayoutStatus string
type PaymentPurpose string
type PaymentStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"

	KYCStatusPending   KYCStatus = "pending"
	KYCStatusSubmitted KYCStatus = "submitted"
	KYCStatusApproved  KYCStatus = "approved"
	KYCStatusRejected  KYCStatus = "rejected"

	TaskCategoryAppInstall   TaskCategory = "app_install"
	TaskCategoryReview       TaskCategory = "review"
	TaskCategorySubscription TaskCategory = "subscription"
	TaskCategoryEngagement   TaskCategory = "engagement"
	TaskCategoryVideo        TaskCategory = "video"

	CompletionStatusSubmitted CompletionStatus = "submitted"
	CompletionStatusApproved  CompletionStatus = "approved"
	CompletionStatusRejected  CompletionStatus = "rejected"

	EarningTypeVideo        EarningType = "video"
	EarningTypeTask         EarningType = "task"
	EarningTypeReferral     EarningType = "referral"
	EarningTypeSignupBonus  EarningType = "signup_bonus"
	EarningTypePayoutRefund EarningType = "payout_refund"

	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusApproved   PayoutStatus = "approved"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusRejected   PayoutStatus = "rejected"

	PaymentPurposeKYC          PaymentPurpose = "kyc"
	PaymentPurposeReactivation PaymentPurpose = "reactivation"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	AccountService      AccountService
	TaskService         TaskService
	CompletionService   CompletionService
	LedgerService       LedgerService
	ReferralService     ReferralService
	PayoutService       PayoutService
	PaymentService      PaymentService
	NotificationService NotificationService
	AnalyticsService    AnalyticsService
	UploadService       UploadService
}

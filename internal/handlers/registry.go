package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	TaskHandler         *TaskHandler
	CompletionHandler   *CompletionHandler
	EarningHandler      *EarningHandler
	PayoutHandler       *PayoutHandler
	PaymentHandler      *PaymentHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
	AdminHandler        *AdminHandler
}

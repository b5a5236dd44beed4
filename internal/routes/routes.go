package routes

import (
	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/handlers"
)

// RegisterRoutes регистрирует все HTTP маршруты под /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.TaskHandler.RegisterRoutes(api)
		appHandlers.CompletionHandler.RegisterRoutes(api)
		appHandlers.EarningHandler.RegisterRoutes(api)
		appHandlers.PayoutHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
	}
}

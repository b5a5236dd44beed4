package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"rupeestream_backend/internal/config"
	"rupeestream_backend/internal/database"
	"rupeestream_backend/internal/email"
	"rupeestream_backend/internal/handlers"
	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/routes"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/payment"
	"rupeestream_backend/internal/storage"
	"rupeestream_backend/internal/validator"
	"rupeestream_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без админа админка мертва - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновые воркеры живут, пока жив процесс
	ctx := context.Background()
	workers.NewLedgerWorker(gormDB).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, gormDB, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPUsername == "" || cfg.Server.Env == "test" {
		logger.Warn("SMTP credentials are not set. Using MOCK email provider.")
		emailProvider = &MockEmailProvider{}
	} else {
		emailProvider = email.NewSMTPProvider(email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(gormDB)
	taskRepo := repositories.NewTaskRepository(gormDB)
	completionRepo := repositories.NewCompletionRepository(gormDB)
	earningRepo := repositories.NewEarningRepository(gormDB)
	referralRepo := repositories.NewReferralRepository(gormDB)
	payoutRepo := repositories.NewPayoutRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// --- Сервисы (порядок важен: леджер и аккаунт нужны почти всем) ---
	ledgerService := services.NewLedgerService(gormDB, earningRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	referralService := services.NewReferralService(referralRepo, userRepo, ledgerService, cfg.FrontendURL)
	accountService := services.NewAccountService(gormDB, userRepo, referralService, notificationService, emailProvider)
	authService := services.NewAuthService(gormDB, cfg, userRepo, ledgerService, emailProvider)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	completionService := services.NewCompletionService(gormDB, completionRepo, taskRepo, userRepo, ledgerService, accountService, notificationService, emailProvider)
	payoutService := services.NewPayoutService(gormDB, payoutRepo, userRepo, ledgerService, accountService, notificationService, emailProvider)
	gateway := payment.NewGateway(cfg.Gateway.MerchantLogin, cfg.Gateway.Password1, cfg.Gateway.Password2, cfg.Gateway.BaseURL)
	paymentService := services.NewPaymentService(gormDB, paymentRepo, userRepo, accountService, gateway)
	analyticsService := services.NewAnalyticsService(userRepo, earningRepo, completionRepo, payoutRepo)
	uploadService := services.NewUploadService(storageInstance, cfg)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		AccountService:      accountService,
		TaskService:         taskService,
		CompletionService:   completionService,
		LedgerService:       ledgerService,
		ReferralService:     referralService,
		PayoutService:       payoutService,
		PaymentService:      paymentService,
		NotificationService: notificationService,
		AnalyticsService:    analyticsService,
		UploadService:       uploadService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService, services.AccountService, services.ReferralService),
		TaskHandler:         handlers.NewTaskHandler(baseHandler, services.TaskService),
		CompletionHandler:   handlers.NewCompletionHandler(baseHandler, services.CompletionService),
		EarningHandler:      handlers.NewEarningHandler(baseHandler, services.LedgerService, services.UserService),
		PayoutHandler:       handlers.NewPayoutHandler(baseHandler, services.PayoutService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, services.UploadService),
		AdminHandler: handlers.NewAdminHandler(
			baseHandler,
			services.UserService,
			services.AccountService,
			services.TaskService,
			services.CompletionService,
			services.PayoutService,
			services.AnalyticsService,
		),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.NewRateLimiter(rate.Limit(20), 40).Middleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	code, err := seedReferralCode()
	if err != nil {
		return fmt.Errorf("failed to generate admin referral code: %w", err)
	}

	newAdmin := &models.User{
		Name:               "Administrator",
		Email:              adminEmail,
		PasswordHash:       string(hashedPassword),
		Role:               models.UserRoleAdmin,
		Status:             models.UserStatusActive,
		VerificationStatus: models.VerificationVerified,
		KYCStatus:          models.KYCStatusApproved,
		ReferralCode:       code,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return nil
}

func seedReferralCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[n.Int64()]
	}
	return "EP-" + string(code), nil
}

package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/internal/services/payment"
	"rupeestream_backend/pkg/apperrors"
)

const (
	kycOrderPrefix        = "kyc_"
	reactivateOrderPrefix = "reactivate_"
)

// PaymentService - платные операции через внешний шлюз: сбор за KYC
// и сбор за реактивацию приостановленного аккаунта.
type PaymentService interface {
	InitiateKYCPayment(userID string) (*dto.InitiatePaymentResponse, error)
	InitiateReactivationPayment(userID string) (*dto.InitiatePaymentResponse, error)
	ListOrders(userID string) ([]models.PaymentOrder, error)

	// HandleGatewayCallback обрабатывает уведомление шлюза. Ошибка наружу
	// не отдается: хендлер вебхука всегда отвечает 200, проблемы логируются.
	HandleGatewayCallback(req *dto.GatewayCallbackRequest) error
}

type PaymentServiceImpl struct {
	db             *gorm.DB
	paymentRepo    repositories.PaymentRepository
	userRepo       repositories.UserRepository
	accountService AccountService
	gateway        *payment.Gateway
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	accountService AccountService,
	gateway *payment.Gateway,
) PaymentService {
	return &PaymentServiceImpl{
		db:             db,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		accountService: accountService,
		gateway:        gateway,
	}
}

func (s *PaymentServiceImpl) InitiateKYCPayment(userID string) (*dto.InitiatePaymentResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.KYCStatus == models.KYCStatusApproved {
		return nil, apperrors.ErrInvalidStatus("payment", "KYC is already approved")
	}

	return s.createOrder(userID, models.PaymentPurposeKYC, kycOrderPrefix,
		models.KYCFeeAmount, "RupeeStream KYC verification fee")
}

func (s *PaymentServiceImpl) InitiateReactivationPayment(userID string) (*dto.InitiatePaymentResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Status != models.UserStatusSuspended {
		return nil, apperrors.ErrInvalidStatus("payment", "Account is not suspended")
	}

	return s.createOrder(userID, models.PaymentPurposeReactivation, reactivateOrderPrefix,
		models.ReactivationFeeAmount, "RupeeStream account reactivation fee")
}

func (s *PaymentServiceImpl) createOrder(userID string, purpose models.PaymentPurpose, prefix string, amount decimal.Decimal, description string) (*dto.InitiatePaymentResponse, error) {
	order := &models.PaymentOrder{
		OrderID: prefix + uuid.NewString(),
		UserID:  userID,
		Purpose: purpose,
		Amount:  amount,
		Status:  models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.InitiatePaymentResponse{
		OrderID:    order.OrderID,
		Amount:     amount,
		PaymentURL: s.gateway.PaymentURL(order.OrderID, amount, description),
	}, nil
}

func (s *PaymentServiceImpl) ListOrders(userID string) ([]models.PaymentOrder, error) {
	orders, err := s.paymentRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return orders, nil
}

func (s *PaymentServiceImpl) HandleGatewayCallback(req *dto.GatewayCallbackRequest) error {
	if !s.gateway.VerifyCallback(req.OutSum, req.InvID, req.SignatureValue) {
		return fmt.Errorf("invalid gateway signature for order %s", req.InvID)
	}

	order, err := s.paymentRepo.FindByOrderID(req.InvID)
	if err != nil {
		return fmt.Errorf("gateway callback for unknown order %s: %w", req.InvID, err)
	}

	paidSum, err := decimal.NewFromString(req.OutSum)
	if err != nil || !paidSum.Equal(order.Amount) {
		return fmt.Errorf("gateway callback amount mismatch for order %s: got %s, want %s",
			req.InvID, req.OutSum, order.Amount.StringFixed(2))
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		affected, txErr := s.paymentRepo.MarkPaid(tx, order.OrderID, req.SignatureValue)
		if txErr != nil {
			return txErr
		}
		if affected == 0 {
			// Повторный колбэк: заказ уже обработан
			logger.Info("duplicate gateway callback ignored", "order_id", order.OrderID)
			return nil
		}

		switch {
		case strings.HasPrefix(order.OrderID, kycOrderPrefix):
			return s.accountService.ApproveKYCTx(tx, order.UserID)
		case strings.HasPrefix(order.OrderID, reactivateOrderPrefix):
			return tx.Model(&models.User{}).
				Where("id = ? AND status = ?", order.UserID, models.UserStatusSuspended).
				Updates(map[string]interface{}{
					"status":            models.UserStatusActive,
					"suspension_reason": "",
				}).Error
		}
		return fmt.Errorf("order %s has unknown prefix", order.OrderID)
	})
}

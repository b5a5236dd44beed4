package services

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rupeestream_backend/internal/email"
	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

// PayoutService - заявки на выплату. Сумма удерживается с баланса в момент
// создания заявки; отклонение возвращает удержание записью payout_refund.
type PayoutService interface {
	Create(userID string, req *dto.CreatePayoutRequest) (*models.PayoutRequest, error)
	ListForUser(userID string, page, pageSize int) ([]models.PayoutRequest, int64, error)
	ListForAdmin(query *dto.PayoutListQuery) ([]models.PayoutRequest, int64, error)

	// UpdateStatus двигает заявку строго по таблице переходов:
	// pending -> approved|rejected, approved -> processing|rejected,
	// processing -> completed. Остальное - invalid-transition.
	UpdateStatus(payoutID, adminID string, req *dto.UpdatePayoutStatusRequest) (*models.PayoutRequest, error)
}

type PayoutServiceImpl struct {
	db                  *gorm.DB
	payoutRepo          repositories.PayoutRepository
	userRepo            repositories.UserRepository
	ledgerService       LedgerService
	accountService      AccountService
	notificationService NotificationService
	emailProvider       email.Provider
}

func NewPayoutService(
	db *gorm.DB,
	payoutRepo repositories.PayoutRepository,
	userRepo repositories.UserRepository,
	ledgerService LedgerService,
	accountService AccountService,
	notificationService NotificationService,
	emailProvider email.Provider,
) PayoutService {
	return &PayoutServiceImpl{
		db:                  db,
		payoutRepo:          payoutRepo,
		userRepo:            userRepo,
		ledgerService:       ledgerService,
		accountService:      accountService,
		notificationService: notificationService,
		emailProvider:       emailProvider,
	}
}

func (s *PayoutServiceImpl) Create(userID string, req *dto.CreatePayoutRequest) (*models.PayoutRequest, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.accountService.CheckActionAllowed(user); err != nil {
		return nil, err
	}
	if !user.HasBankDetails() {
		return nil, apperrors.ErrBankDetailsMissing
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid payout amount")
	}
	if amount.LessThan(models.MinPayoutAmount) {
		return nil, apperrors.ErrInvalidOperation("payout",
			fmt.Sprintf("Minimum payout is ₹%s", models.MinPayoutAmount.StringFixed(0)))
	}

	details, err := user.ParseBankDetails()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	snapshot, err := json.Marshal(details)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payout := &models.PayoutRequest{
		UserID:      userID,
		Amount:      amount,
		Status:      models.PayoutStatusPending,
		BankDetails: datatypes.JSON(snapshot),
	}

	// Удержание и заявка - одна транзакция. Условное списание не даст
	// запросить больше остатка.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.ledgerService.HoldBalanceTx(tx, userID, amount); txErr != nil {
			return txErr
		}
		if txErr := s.payoutRepo.CreateTx(tx, payout); txErr != nil {
			return apperrors.InternalError(txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *PayoutServiceImpl) ListForUser(userID string, page, pageSize int) ([]models.PayoutRequest, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	payouts, total, err := s.payoutRepo.FindByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return payouts, total, nil
}

func (s *PayoutServiceImpl) ListForAdmin(query *dto.PayoutListQuery) ([]models.PayoutRequest, int64, error) {
	criteria := repositories.PayoutFilter{
		Status:   models.PayoutStatus(query.Status),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	payouts, total, err := s.payoutRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return payouts, total, nil
}

func (s *PayoutServiceImpl) UpdateStatus(payoutID, adminID string, req *dto.UpdatePayoutStatusRequest) (*models.PayoutRequest, error) {
	payout, err := s.payoutRepo.FindByID(payoutID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	newStatus := models.PayoutStatus(req.Status)
	if !models.CanTransitionPayout(payout.Status, newStatus) {
		return nil, apperrors.ErrInvalidTransition("payout",
			fmt.Sprintf("Cannot move payout from %s to %s", payout.Status, newStatus))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, txErr := s.payoutRepo.TransitionStatus(tx, payoutID, payout.Status, newStatus, adminID, req.Reason)
		if txErr != nil {
			return apperrors.InternalError(txErr)
		}
		if affected == 0 {
			// Конкурентный админ успел раньше
			return apperrors.ErrInvalidTransition("payout", "Payout status has changed, reload and retry")
		}

		if newStatus == models.PayoutStatusRejected {
			// Возврат удержания той же транзакцией
			_, txErr = s.ledgerService.RecordEarningTx(
				tx, payout.UserID, models.EarningTypePayoutRefund, payout.Amount,
				"Payout refund", &payout.ID,
			)
			if txErr != nil {
				return txErr
			}
		}

		return s.notificationService.NotifyTx(tx, payout.UserID,
			"payout_update", "Payout "+string(newStatus),
			payoutStatusMessage(newStatus, payout.Amount, req.Reason),
			map[string]interface{}{"payout_id": payout.ID},
		)
	})
	if err != nil {
		return nil, err
	}

	s.sendPayoutEmail(payout, newStatus)
	return s.payoutRepo.FindByID(payoutID)
}

func (s *PayoutServiceImpl) sendPayoutEmail(payout *models.PayoutRequest, status models.PayoutStatus) {
	if s.emailProvider == nil || status != models.PayoutStatusCompleted {
		return
	}
	user, err := s.userRepo.FindByID(payout.UserID)
	if err != nil {
		return
	}
	if err := s.emailProvider.SendPayoutProcessed(user.Email, user.Name, payout.Amount.StringFixed(2)); err != nil {
		logger.Warn("failed to send payout email", "user_id", user.ID, "error", err)
	}
}

func payoutStatusMessage(status models.PayoutStatus, amount decimal.Decimal, reason string) string {
	switch status {
	case models.PayoutStatusApproved:
		return fmt.Sprintf("Your payout of ₹%s was approved.", amount.StringFixed(2))
	case models.PayoutStatusProcessing:
		return fmt.Sprintf("Your payout of ₹%s is being processed.", amount.StringFixed(2))
	case models.PayoutStatusCompleted:
		return fmt.Sprintf("Your payout of ₹%s was transferred to your bank account.", amount.StringFixed(2))
	case models.PayoutStatusRejected:
		message := fmt.Sprintf("Your payout of ₹%s was rejected and refunded to your balance.", amount.StringFixed(2))
		if reason != "" {
			message += " Reason: " + reason
		}
		return message
	}
	return string(status)
}

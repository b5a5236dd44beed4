package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rupeestream_backend/internal/email"
	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

// AccountService - статусы аккаунта, KYC и гейты доступа.
type AccountService interface {
	// CheckActionAllowed - гейт для отправки выполнений и заявок на выплату.
	// Возвращает типизированные 403: errorType=suspended | kyc_pending.
	CheckActionAllowed(user *models.User) error

	SubmitKYC(userID string, req *dto.SubmitKYCRequest) error

	// ApproveKYCTx одобряет верификацию внутри tx и начисляет реферальный
	// бонус пригласившему (единый путь через ReferralService).
	ApproveKYCTx(tx *gorm.DB, userID string) error
	ApproveKYC(userID string) error
	RejectKYC(userID, reason string) error

	Suspend(userID, reason string) error
	Reactivate(userID string) error
}

type AccountServiceImpl struct {
	db                  *gorm.DB
	userRepo            repositories.UserRepository
	referralService     ReferralService
	notificationService NotificationService
	emailProvider       email.Provider
}

func NewAccountService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	referralService ReferralService,
	notificationService NotificationService,
	emailProvider email.Provider,
) AccountService {
	return &AccountServiceImpl{
		db:                  db,
		userRepo:            userRepo,
		referralService:     referralService,
		notificationService: notificationService,
		emailProvider:       emailProvider,
	}
}

func (s *AccountServiceImpl) CheckActionAllowed(user *models.User) error {
	if user.Status == models.UserStatusBanned {
		return apperrors.ErrAccountBanned
	}
	if user.Status == models.UserStatusSuspended {
		return apperrors.ErrAccountSuspended
	}
	if user.VerificationStatus != models.VerificationVerified ||
		user.KYCStatus != models.KYCStatusApproved {
		return apperrors.ErrKYCPending
	}
	return nil
}

func (s *AccountServiceImpl) SubmitKYC(userID string, req *dto.SubmitKYCRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if user.KYCStatus == models.KYCStatusApproved {
		return apperrors.ErrInvalidStatus("kyc", "KYC is already approved")
	}
	if user.KYCStatus == models.KYCStatusSubmitted {
		return apperrors.ErrInvalidStatus("kyc", "KYC documents are already under review")
	}

	documents, err := json.Marshal(req)
	if err != nil {
		return apperrors.InternalError(err)
	}
	err = s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"kyc_status":    models.KYCStatusSubmitted,
			"kyc_documents": datatypes.JSON(documents),
		}).Error
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AccountServiceImpl) ApproveKYCTx(tx *gorm.DB, userID string) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND kyc_status <> ?", userID, models.KYCStatusApproved).
		Updates(map[string]interface{}{
			"verification_status": models.VerificationVerified,
			"kyc_status":          models.KYCStatusApproved,
		})
	if result.Error != nil {
		return apperrors.InternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Уже одобрен (повторный вебхук или двойной клик) - бонус не трогаем
		return nil
	}

	return s.referralService.CreditReferralBonus(tx, userID)
}

func (s *AccountServiceImpl) ApproveKYC(userID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.ApproveKYCTx(tx, userID)
	})
	if err != nil {
		return err
	}

	s.notificationService.Notify(userID, "kyc_decision", "KYC approved",
		"Your identity verification is complete. You can now complete tasks and request payouts.", nil)
	return nil
}

func (s *AccountServiceImpl) RejectKYC(userID, reason string) error {
	err := s.userRepo.UpdateVerification(userID, models.VerificationRejected, models.KYCStatusRejected)
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Notify(userID, "kyc_decision", "KYC rejected", reason, nil)
	return nil
}

func (s *AccountServiceImpl) Suspend(userID, reason string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if user.Status == models.UserStatusSuspended {
		return apperrors.ErrInvalidStatus("account", "Account is already suspended")
	}

	if err := s.userRepo.UpdateStatus(userID, models.UserStatusSuspended, reason); err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Notify(userID, "account_suspended", "Account suspended", reason, nil)
	if s.emailProvider != nil {
		if err := s.emailProvider.SendAccountSuspended(user.Email, user.Name, reason); err != nil {
			logger.Warn("failed to send suspension email", "user_id", userID, "error", err)
		}
	}
	return nil
}

func (s *AccountServiceImpl) Reactivate(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if user.Status != models.UserStatusSuspended {
		return apperrors.ErrInvalidStatus("account", "Account is not suspended")
	}

	if err := s.userRepo.UpdateStatus(userID, models.UserStatusActive, ""); err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Notify(userID, "account_reactivated", "Account reactivated",
		"Your account is active again.", nil)
	return nil
}

package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/pkg/apperrors"
)

// LedgerService - единственная точка изменения баланса пользователя.
// Каждая запись леджера и соответствующий UPDATE users.balance выполняются
// в одной транзакции; списания - условным UPDATE с проверкой остатка.
type LedgerService interface {
	// RecordEarningTx применяет начисление внутри внешней транзакции.
	// Отрицательный amount - списание (удержание выплаты).
	RecordEarningTx(tx *gorm.DB, userID string, earningType models.EarningType, amount decimal.Decimal, description string, referenceID *string) (*models.Earning, error)

	// RecordEarning - то же, но в собственной транзакции.
	RecordEarning(userID string, earningType models.EarningType, amount decimal.Decimal, description string, referenceID *string) (*models.Earning, error)

	// HoldBalanceTx - условное списание под заявку на выплату. Записи леджера
	// не создает: удержание представлено самой заявкой, возврат при отклонении
	// идет кредитом payout_refund. Итого всегда:
	// balance == sum(earnings) - sum(payout amounts).
	HoldBalanceTx(tx *gorm.DB, userID string, amount decimal.Decimal) error

	GetEarnings(userID string, criteria repositories.EarningFilter) ([]models.Earning, int64, error)
	GetSummary(userID string) (map[string]decimal.Decimal, error)
}

type LedgerServiceImpl struct {
	db          *gorm.DB
	earningRepo repositories.EarningRepository
}

func NewLedgerService(db *gorm.DB, earningRepo repositories.EarningRepository) LedgerService {
	return &LedgerServiceImpl{
		db:          db,
		earningRepo: earningRepo,
	}
}

func (s *LedgerServiceImpl) RecordEarningTx(tx *gorm.DB, userID string, earningType models.EarningType, amount decimal.Decimal, description string, referenceID *string) (*models.Earning, error) {
	query := tx.Model(&models.User{}).Where("id = ?", userID)
	if amount.IsNegative() {
		// Списание: баланс не может уйти в минус
		query = query.Where("balance >= ?", amount.Neg())
	}

	result := query.Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return nil, apperrors.InternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		if amount.IsNegative() {
			return nil, apperrors.ErrInsufficientBalance
		}
		return nil, apperrors.ErrNotFound(repositories.ErrUserNotFound)
	}

	// Снапшот баланса читается в той же транзакции, что и UPDATE
	var balanceAfter decimal.Decimal
	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Select("balance").
		Scan(&balanceAfter).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	earning := &models.Earning{
		UserID:       userID,
		Type:         earningType,
		Amount:       amount,
		Description:  description,
		ReferenceID:  referenceID,
		BalanceAfter: balanceAfter,
	}
	if err := s.earningRepo.CreateTx(tx, earning); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return earning, nil
}

func (s *LedgerServiceImpl) RecordEarning(userID string, earningType models.EarningType, amount decimal.Decimal, description string, referenceID *string) (*models.Earning, error) {
	var earning *models.Earning
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		earning, txErr = s.RecordEarningTx(tx, userID, earningType, amount, description, referenceID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return earning, nil
}

func (s *LedgerServiceImpl) HoldBalanceTx(tx *gorm.DB, userID string, amount decimal.Decimal) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return apperrors.InternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

func (s *LedgerServiceImpl) GetEarnings(userID string, criteria repositories.EarningFilter) ([]models.Earning, int64, error) {
	earnings, total, err := s.earningRepo.FindByUser(userID, criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return earnings, total, nil
}

func (s *LedgerServiceImpl) GetSummary(userID string) (map[string]decimal.Decimal, error) {
	summary, err := s.earningRepo.SummaryByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return summary, nil
}

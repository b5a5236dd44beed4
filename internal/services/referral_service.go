package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type ReferralService interface {
	// CreditReferralBonus - ЕДИНСТВЕННЫЙ путь начисления реферального бонуса.
	// Вызывается при одобрении KYC приглашенного, внутри той же транзакции.
	// Условный UPDATE флага is_earning_credited гарантирует не более одного
	// начисления на приглашенного независимо от числа конкурентных вызовов.
	CreditReferralBonus(tx *gorm.DB, referredUserID string) error

	GetStats(userID string) (*dto.ReferralStatsResponse, error)
}

type ReferralServiceImpl struct {
	referralRepo  repositories.ReferralRepository
	userRepo      repositories.UserRepository
	ledgerService LedgerService
	frontendURL   string
}

func NewReferralService(
	referralRepo repositories.ReferralRepository,
	userRepo repositories.UserRepository,
	ledgerService LedgerService,
	frontendURL string,
) ReferralService {
	return &ReferralServiceImpl{
		referralRepo:  referralRepo,
		userRepo:      userRepo,
		ledgerService: ledgerService,
		frontendURL:   frontendURL,
	}
}

func (s *ReferralServiceImpl) CreditReferralBonus(tx *gorm.DB, referredUserID string) error {
	referral, err := s.referralRepo.ClaimCredit(tx, referredUserID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if referral == nil {
		// Реферала нет или бонус уже начислен
		return nil
	}

	_, err = s.ledgerService.RecordEarningTx(
		tx,
		referral.ReferrerID,
		models.EarningTypeReferral,
		models.ReferralBonusAmount,
		"Referral bonus",
		&referral.ID,
	)
	if err != nil {
		return err
	}

	logger.Info("referral bonus credited",
		"referrer_id", referral.ReferrerID,
		"referred_id", referredUserID,
		"amount", models.ReferralBonusAmount.String(),
	)
	return nil
}

func (s *ReferralServiceImpl) GetStats(userID string) (*dto.ReferralStatsResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	credited, total, err := s.referralRepo.CountByReferrer(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	referrals, _, err := s.referralRepo.FindByReferrer(userID, 50, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	entries := make([]dto.ReferralEntry, 0, len(referrals))
	for _, r := range referrals {
		entry := dto.ReferralEntry{
			JoinedAt:   r.CreatedAt,
			IsCredited: r.IsEarningCredited,
		}
		if r.Referred != nil {
			entry.Name = r.Referred.Name
		}
		entries = append(entries, entry)
	}

	return &dto.ReferralStatsResponse{
		ReferralCode:  user.ReferralCode,
		ReferralLink:  fmt.Sprintf("%s/register?ref=%s", s.frontendURL, user.ReferralCode),
		TotalReferred: total,
		TotalCredited: credited,
		TotalEarned:   models.ReferralBonusAmount.Mul(decimal.NewFromInt(credited)),
		Referrals:     entries,
	}, nil
}

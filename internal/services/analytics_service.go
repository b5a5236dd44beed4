package services

import (
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type AnalyticsService interface {
	Dashboard() (*dto.DashboardResponse, error)

	// Reconcile сверяет денормализованный баланс с леджером:
	// expected = sum(earnings) - sum(payout amounts). Только чтение.
	Reconcile(userID string) (*dto.ReconciliationResponse, error)
}

type AnalyticsServiceImpl struct {
	userRepo       repositories.UserRepository
	earningRepo    repositories.EarningRepository
	completionRepo repositories.CompletionRepository
	payoutRepo     repositories.PayoutRepository
}

func NewAnalyticsService(
	userRepo repositories.UserRepository,
	earningRepo repositories.EarningRepository,
	completionRepo repositories.CompletionRepository,
	payoutRepo repositories.PayoutRepository,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		userRepo:       userRepo,
		earningRepo:    earningRepo,
		completionRepo: completionRepo,
		payoutRepo:     payoutRepo,
	}
}

func (s *AnalyticsServiceImpl) Dashboard() (*dto.DashboardResponse, error) {
	usersByStatus, err := s.userRepo.CountByStatus()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	_, pendingCompletions, err := s.completionRepo.FindWithFilter(repositories.CompletionFilter{
		Status:   models.CompletionStatusSubmitted,
		PageSize: 1,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	_, pendingPayouts, err := s.payoutRepo.FindWithFilter(repositories.PayoutFilter{
		Status:   models.PayoutStatusPending,
		PageSize: 1,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	_, pendingKYC, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		KYCStatus: models.KYCStatusSubmitted,
		PageSize:  1,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	earningsByType, err := s.earningRepo.TotalsByType()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payoutsByStatus, err := s.payoutRepo.TotalsByStatus()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DashboardResponse{
		UsersByStatus:      usersByStatus,
		PendingCompletions: pendingCompletions,
		PendingPayouts:     pendingPayouts,
		PendingKYC:         pendingKYC,
		EarningsByType:     earningsByType,
		PayoutsByStatus:    payoutsByStatus,
	}, nil
}

func (s *AnalyticsServiceImpl) Reconcile(userID string) (*dto.ReconciliationResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	ledgerSum, err := s.earningRepo.SumByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	payoutDebits, err := s.payoutRepo.SumPayoutDebits(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	expected := ledgerSum.Sub(payoutDebits)
	drift := user.Balance.Sub(expected)

	return &dto.ReconciliationResponse{
		UserID:          userID,
		StoredBalance:   user.Balance,
		LedgerSum:       ledgerSum,
		PayoutDebits:    payoutDebits,
		ExpectedBalance: expected,
		Drift:           drift,
		Consistent:      drift.IsZero(),
	}, nil
}

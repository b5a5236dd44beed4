package repositories

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/models"
)

var ErrPayoutNotFound = errors.New("payout request not found")

type PayoutRepository interface {
	FindByID(id string) (*models.PayoutRequest, error)
	CreateTx(tx *gorm.DB, payout *models.PayoutRequest) error
	FindByUser(userID string, limit, offset int) ([]models.PayoutRequest, int64, error)
	FindWithFilter(criteria PayoutFilter) ([]models.PayoutRequest, int64, error)

	// TransitionStatus - условный переход from -> to внутри tx.
	// 0 затронутых строк = заявка уже не в статусе from.
	TransitionStatus(tx *gorm.DB, id string, from, to models.PayoutStatus, adminID, reason string) (int64, error)

	// SumPayoutDebits - сумма списаний под заявки на выплату (все заявки:
	// возвраты по отклоненным идут отдельными записями леджера).
	// Используется сверкой баланса.
	SumPayoutDebits(userID string) (decimal.Decimal, error)
	TotalsByStatus() (map[string]decimal.Decimal, error)
}

type PayoutFilter struct {
	Status   models.PayoutStatus
	UserID   string
	Page     int
	PageSize int
}

type PayoutRepositoryImpl struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &PayoutRepositoryImpl{db: db}
}

func (r *PayoutRepositoryImpl) FindByID(id string) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	err := r.db.First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepositoryImpl) CreateTx(tx *gorm.DB, payout *models.PayoutRequest) error {
	return tx.Create(payout).Error
}

func (r *PayoutRepositoryImpl) FindByUser(userID string, limit, offset int) ([]models.PayoutRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&models.PayoutRequest{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payouts []models.PayoutRequest
	err := query.Order("requested_at DESC").
		Limit(limit).Offset(offset).
		Find(&payouts).Error
	return payouts, total, err
}

func (r *PayoutRepositoryImpl) FindWithFilter(criteria PayoutFilter) ([]models.PayoutRequest, int64, error) {
	query := r.db.Model(&models.PayoutRequest{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var payouts []models.PayoutRequest
	err := query.Preload("User").
		Order("requested_at ASC"). // админская очередь: старые первыми
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&payouts).Error
	return payouts, total, err
}

func (r *PayoutRepositoryImpl) TransitionStatus(tx *gorm.DB, id string, from, to models.PayoutStatus, adminID, reason string) (int64, error) {
	updates := map[string]interface{}{
		"status":       to,
		"processed_at": time.Now(),
		"processed_by": adminID,
		"updated_at":   time.Now(),
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	result := tx.Model(&models.PayoutRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *PayoutRepositoryImpl) SumPayoutDebits(userID string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.Model(&models.PayoutRequest{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *PayoutRepositoryImpl) TotalsByStatus() (map[string]decimal.Decimal, error) {
	type row struct {
		Status string
		Total  decimal.Decimal
	}
	var rows []row
	err := r.db.Model(&models.PayoutRequest{}).
		Select("status, COALESCE(SUM(amount), 0) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, rw := range rows {
		totals[rw.Status] = rw.Total
	}
	return totals, nil
}

package repositories

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rupeestream_backend/internal/models"
)

type EarningRepository interface {
	// CreateTx вставляет запись леджера внутри внешней транзакции.
	// Запись append-only: Update/Delete не существуют намеренно.
	CreateTx(tx *gorm.DB, earning *models.Earning) error

	FindByUser(userID string, criteria EarningFilter) ([]models.Earning, int64, error)
	SumByUser(userID string) (decimal.Decimal, error)
	SummaryByUser(userID string) (map[string]decimal.Decimal, error)
	TotalsByType() (map[string]decimal.Decimal, error)
}

type EarningFilter struct {
	Type     models.EarningType
	Page     int
	PageSize int
}

type EarningRepositoryImpl struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) EarningRepository {
	return &EarningRepositoryImpl{db: db}
}

func (r *EarningRepositoryImpl) CreateTx(tx *gorm.DB, earning *models.Earning) error {
	return tx.Create(earning).Error
}

func (r *EarningRepositoryImpl) FindByUser(userID string, criteria EarningFilter) ([]models.Earning, int64, error) {
	query := r.db.Model(&models.Earning{}).Where("user_id = ?", userID)

	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
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

	var earnings []models.Earning
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&earnings).Error
	return earnings, total, err
}

func (r *EarningRepositoryImpl) SumByUser(userID string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.Model(&models.Earning{}).
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

func (r *EarningRepositoryImpl) SummaryByUser(userID string) (map[string]decimal.Decimal, error) {
	return r.sumGrouped(r.db.Where("user_id = ?", userID))
}

func (r *EarningRepositoryImpl) TotalsByType() (map[string]decimal.Decimal, error) {
	return r.sumGrouped(r.db)
}

func (r *EarningRepositoryImpl) sumGrouped(query *gorm.DB) (map[string]decimal.Decimal, error) {
	type row struct {
		Type  string
		Total decimal.Decimal
	}
	var rows []row
	err := query.Model(&models.Earning{}).
		Select("type, COALESCE(SUM(amount), 0) as total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, rw := range rows {
		totals[rw.Type] = rw.Total
	}
	return totals, nil
}

package repositories

import (
	"rupeestream_backend/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository interface {
	FindByReferrer(referrerID string, limit, offset int) ([]models.Referral, int64, error)

	// ClaimCredit - атомарный захват права на начисление бонуса:
	// UPDATE ... SET is_earning_credited = true
	// WHERE referred_id = ? AND NOT is_earning_credited.
	// Возвращает реферала только если флаг перевернула ИМЕННО эта транзакция;
	// (nil, nil) - если бонус уже начислен или реферала нет.
	ClaimCredit(tx *gorm.DB, referredID string) (*models.Referral, error)

	CountByReferrer(referrerID string) (credited int64, total int64, err error)
}

type ReferralRepositoryImpl struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &ReferralRepositoryImpl{db: db}
}

func (r *ReferralRepositoryImpl) FindByReferrer(referrerID string, limit, offset int) ([]models.Referral, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&models.Referral{}).Where("referrer_id = ?", referrerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referrals []models.Referral
	err := query.Preload("Referred").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&referrals).Error
	return referrals, total, err
}

func (r *ReferralRepositoryImpl) ClaimCredit(tx *gorm.DB, referredID string) (*models.Referral, error) {
	result := tx.Model(&models.Referral{}).
		Where("referred_id = ? AND is_earning_credited = ?", referredID, false).
		Update("is_earning_credited", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Реферала нет, либо бонус уже начислен - начислять нечего
		return nil, nil
	}

	var referral models.Referral
	if err := tx.First(&referral, "referred_id = ?", referredID).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepositoryImpl) CountByReferrer(referrerID string) (int64, int64, error) {
	var total int64
	if err := r.db.Model(&models.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var credited int64
	if err := r.db.Model(&models.Referral{}).
		Where("referrer_id = ? AND is_earning_credited = ?", referrerID, true).
		Count(&credited).Error; err != nil {
		return 0, 0, err
	}

	return credited, total, nil
}

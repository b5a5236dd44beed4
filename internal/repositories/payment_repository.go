package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"rupeestream_backend/internal/models"
)

var ErrPaymentOrderNotFound = errors.New("payment order not found")

type PaymentRepository interface {
	Create(order *models.PaymentOrder) error
	FindByOrderID(orderID string) (*models.PaymentOrder, error)
	FindByUser(userID string) ([]models.PaymentOrder, error)

	// MarkPaid - условный переход pending -> paid. 0 затронутых строк
	// означает, что колбэк шлюза пришел повторно.
	MarkPaid(tx *gorm.DB, orderID, gatewayRef string) (int64, error)
	MarkFailed(orderID string) error
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *PaymentRepositoryImpl) FindByOrderID(orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PaymentRepositoryImpl) FindByUser(userID string) ([]models.PaymentOrder, error) {
	var orders []models.PaymentOrder
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *PaymentRepositoryImpl) MarkPaid(tx *gorm.DB, orderID, gatewayRef string) (int64, error) {
	now := time.Now()
	result := tx.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusPaid,
			"gateway_ref": gatewayRef,
			"paid_at":     now,
			"updated_at":  now,
		})
	return result.RowsAffected, result.Error
}

func (r *PaymentRepositoryImpl) MarkFailed(orderID string) error {
	return r.db.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed).Error
}

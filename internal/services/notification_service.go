package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type NotificationService interface {
	// Notify - best-effort: ошибка записи логируется, но не роняет
	// породивший уведомление флоу.
	Notify(userID, notificationType, title, message string, data map[string]interface{})

	// NotifyTx пишет уведомление в транзакции породившей операции
	NotifyTx(tx *gorm.DB, userID, notificationType, title, message string, data map[string]interface{}) error

	List(userID string, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) Notify(userID, notificationType, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		if payload, err := json.Marshal(data); err == nil {
			notification.Data = datatypes.JSON(payload)
		}
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Warn("failed to create notification",
			"user_id", userID, "type", notificationType, "error", err)
	}
}

func (s *NotificationServiceImpl) NotifyTx(tx *gorm.DB, userID, notificationType, title, message string, data map[string]interface{}) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		notification.Data = datatypes.JSON(payload)
	}
	return tx.Create(notification).Error
}

func (s *NotificationServiceImpl) List(userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.ToNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationServiceImpl) MarkRead(id, userID string) error {
	if err := s.notificationRepo.MarkRead(id, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

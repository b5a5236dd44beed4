package dto

import (
	"time"

	"gorm.io/datatypes"

	"rupeestream_backend/internal/models"
)

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message,omitempty"`
	Data      datatypes.JSON `json:"data,omitempty"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ToNotificationResponse(notification *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		Data:      notification.Data,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

// NotificationListResponse - страница уведомлений со счетчиком непрочитанных
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unreadCount"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"type:uuid;not null;index"`
	Type    string `gorm:"not null"` // "completion_reviewed", "payout_update", "kyc_decision", "account_suspended"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"completion_id": "...", "payout_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}

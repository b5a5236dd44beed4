package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaskCompletion - одна строка на пару (пользователь, задание).
// Переходы: submitted -> approved | rejected; rejected -> submitted (ресабмит,
// та же строка, attempts+1). Все переходы - условные UPDATE по текущему статусу.
type TaskCompletion struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_completion_user_task"`
	TaskID string `gorm:"type:uuid;not null;uniqueIndex:idx_completion_user_task"`

	Status          CompletionStatus `gorm:"type:varchar(20);not null;default:'submitted';index"`
	ProofData       datatypes.JSON   `gorm:"type:jsonb"`
	ProofImages     datatypes.JSON   `gorm:"type:jsonb"` // массив путей в storage
	Attempts        int              `gorm:"not null;default:1"`
	RejectionReason string

	SubmittedAt time.Time `gorm:"not null;default:now()"`
	ReviewedAt  *time.Time
	ReviewedBy  *string `gorm:"type:uuid"`

	Task *Task `gorm:"foreignKey:TaskID"`
	User *User `gorm:"foreignKey:UserID"`
}

package models

import (
	"github.com/shopspring/decimal"
)

type Task struct {
	BaseModel
	Title            string          `gorm:"not null"`
	Description      string          `gorm:"type:text"`
	Category         TaskCategory    `gorm:"type:varchar(30);not null;index"`
	Reward           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TimeLimitMinutes int             `gorm:"not null;default:60"`

	// Лимит выполнений: при достижении MaxCompletions задание деактивируется
	// атомарным условным UPDATE при одобрении очередного выполнения.
	MaxCompletions     int  `gorm:"not null;default:0"` // 0 = без лимита
	CurrentCompletions int  `gorm:"not null;default:0"`
	TaskLink           string
	IsActive           bool `gorm:"not null;default:true;index"`
}

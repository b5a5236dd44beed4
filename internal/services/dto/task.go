package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
)

// CreateTaskRequest - создание задания админом
type CreateTaskRequest struct {
	Title            string `json:"title" validate:"required,min=3,max=200"`
	Description      string `json:"description" validate:"required,max=5000"`
	Category         string `json:"category" validate:"required,oneof=app_install review subscription engagement video"`
	Reward           string `json:"reward" validate:"required,inr_amount"`
	TimeLimitMinutes int    `json:"timeLimitMinutes" validate:"omitempty,min=1,max=10080"`
	MaxCompletions   int    `json:"maxCompletions" validate:"omitempty,min=0"`
	TaskLink         string `json:"taskLink" validate:"omitempty,url,max=500"`
}

// UpdateTaskRequest - частичное обновление задания
type UpdateTaskRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Reward           *string `json:"reward,omitempty" validate:"omitempty,inr_amount"`
	TimeLimitMinutes *int    `json:"timeLimitMinutes,omitempty" validate:"omitempty,min=1,max=10080"`
	MaxCompletions   *int    `json:"maxCompletions,omitempty" validate:"omitempty,min=0"`
	TaskLink         *string `json:"taskLink,omitempty" validate:"omitempty,url,max=500"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

// TaskListQuery - фильтры списка заданий
type TaskListQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=app_install review subscription engagement video"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type TaskResponse struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Category           models.TaskCategory `json:"category"`
	Reward             decimal.Decimal     `json:"reward"`
	TimeLimitMinutes   int                 `json:"timeLimitMinutes,omitempty"`
	MaxCompletions     int                 `json:"maxCompletions"`
	CurrentCompletions int                 `json:"currentCompletions"`
	TaskLink           string              `json:"taskLink,omitempty"`
	IsActive           bool                `json:"isActive"`
	CreatedAt          time.Time           `json:"createdAt"`
}

func ToTaskResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Category:           task.Category,
		Reward:             task.Reward,
		TimeLimitMinutes:   task.TimeLimitMinutes,
		MaxCompletions:     task.MaxCompletions,
		CurrentCompletions: task.CurrentCompletions,
		TaskLink:           task.TaskLink,
		IsActive:           task.IsActive,
		CreatedAt:          task.CreatedAt,
	}
}

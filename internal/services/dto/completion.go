package dto

import (
	"time"

	"rupeestream_backend/internal/models"
)

// SubmitCompletionRequest - отправка выполнения на проверку.
// Повторная отправка по отклоненному выполнению идет тем же запросом.
type SubmitCompletionRequest struct {
	TaskID      string                 `json:"taskId" validate:"required,uuid"`
	ProofData   map[string]interface{} `json:"proofData"`
	ProofImages []string               `json:"proofImages" validate:"omitempty,max=6,dive,required"`
}

// ReviewCompletionRequest - решение админа по выполнению
type ReviewCompletionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CompletionListQuery - очередь модерации
type CompletionListQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=submitted approved rejected"`
	TaskID   string `form:"taskId" validate:"omitempty,uuid"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type CompletionResponse struct {
	ID              string                  `json:"id"`
	TaskID          string                  `json:"taskId"`
	UserID          string                  `json:"userId"`
	Status          models.CompletionStatus `json:"status"`
	Attempts        int                     `json:"attempts"`
	RejectionReason string                  `json:"rejectionReason,omitempty"`
	SubmittedAt     time.Time               `json:"submittedAt"`
	ReviewedAt      *time.Time              `json:"reviewedAt,omitempty"`
	Task            *TaskResponse           `json:"task,omitempty"`
}

func ToCompletionResponse(completion *models.TaskCompletion) *CompletionResponse {
	resp := &CompletionResponse{
		ID:              completion.ID,
		TaskID:          completion.TaskID,
		UserID:          completion.UserID,
		Status:          completion.Status,
		Attempts:        completion.Attempts,
		RejectionReason: completion.RejectionReason,
		SubmittedAt:     completion.SubmittedAt,
		ReviewedAt:      completion.ReviewedAt,
	}
	if completion.Task != nil {
		resp.Task = ToTaskResponse(completion.Task)
	}
	return resp
}

package repositories

import (
	"errors"
	"time"

	"rupeestream_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrCompletionNotFound = errors.New("task completion not found")

type CompletionRepository interface {
	FindByID(id string) (*models.TaskCompletion, error)
	FindByUserAndTask(userID, taskID string) (*models.TaskCompletion, error)
	Create(completion *models.TaskCompletion) error
	FindByUser(userID string, limit, offset int) ([]models.TaskCompletion, int64, error)
	FindWithFilter(criteria CompletionFilter) ([]models.TaskCompletion, int64, error)

	// Условные переходы статусов. Возвращают количество затронутых строк:
	// 0 означает, что строка уже не в исходном статусе (double-click и т.п.).
	MarkApproved(tx *gorm.DB, id, adminID string) (int64, error)
	MarkRejected(tx *gorm.DB, id, adminID, reason string) (int64, error)
	MarkResubmitted(id string, proofData, proofImages datatypes.JSON) (int64, error)
}

type CompletionFilter struct {
	Status   models.CompletionStatus
	TaskID   string
	Page     int
	PageSize int
}

type CompletionRepositoryImpl struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &CompletionRepositoryImpl{db: db}
}

func (r *CompletionRepositoryImpl) FindByID(id string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.Preload("Task").First(&completion, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *CompletionRepositoryImpl) FindByUserAndTask(userID, taskID string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.First(&completion, "user_id = ? AND task_id = ?", userID, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *CompletionRepositoryImpl) Create(completion *models.TaskCompletion) error {
	return r.db.Create(completion).Error
}

func (r *CompletionRepositoryImpl) FindByUser(userID string, limit, offset int) ([]models.TaskCompletion, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&models.TaskCompletion{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var completions []models.TaskCompletion
	err := query.Preload("Task").
		Order("submitted_at DESC").
		Limit(limit).Offset(offset).
		Find(&completions).Error
	return completions, total, err
}

func (r *CompletionRepositoryImpl) FindWithFilter(criteria CompletionFilter) ([]models.TaskCompletion, int64, error) {
	query := r.db.Model(&models.TaskCompletion{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.TaskID != "" {
		query = query.Where("task_id = ?", criteria.TaskID)
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

	var completions []models.TaskCompletion
	err := query.Preload("Task").Preload("User").
		Order("submitted_at ASC"). // очередь ревью: старые первыми
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&completions).Error
	return completions, total, err
}

func (r *CompletionRepositoryImpl) MarkApproved(tx *gorm.DB, id, adminID string) (int64, error) {
	result := tx.Model(&models.TaskCompletion{}).
		Where("id = ? AND status = ?", id, models.CompletionStatusSubmitted).
		Updates(map[string]interface{}{
			"status":      models.CompletionStatusApproved,
			"reviewed_at": time.Now(),
			"reviewed_by": adminID,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CompletionRepositoryImpl) MarkRejected(tx *gorm.DB, id, adminID, reason string) (int64, error) {
	result := tx.Model(&models.TaskCompletion{}).
		Where("id = ? AND status = ?", id, models.CompletionStatusSubmitted).
		Updates(map[string]interface{}{
			"status":           models.CompletionStatusRejected,
			"rejection_reason": reason,
			"reviewed_at":      time.Now(),
			"reviewed_by":      adminID,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

// MarkResubmitted переводит отклоненную строку обратно в submitted,
// очищая поля ревью и увеличивая счетчик попыток.
func (r *CompletionRepositoryImpl) MarkResubmitted(id string, proofData, proofImages datatypes.JSON) (int64, error) {
	result := r.db.Model(&models.TaskCompletion{}).
		Where("id = ? AND status = ?", id, models.CompletionStatusRejected).
		Updates(map[string]interface{}{
			"status":           models.CompletionStatusSubmitted,
			"proof_data":       proofData,
			"proof_images":     proofImages,
			"rejection_reason": "",
			"reviewed_at":      nil,
			"reviewed_by":      nil,
			"attempts":         gorm.Expr("attempts + 1"),
			"submitted_at":     time.Now(),
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

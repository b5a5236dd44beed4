package repositories

import (
	"errors"
	"time"

	"rupeestream_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	FindByID(id string) (*models.Task, error)
	Create(task *models.Task) error
	Update(task *models.Task) error
	Deactivate(id string) error
	FindWithFilter(criteria TaskFilter) ([]models.Task, int64, error)
	FindActiveForUser(userID string, limit, offset int) ([]models.Task, int64, error)

	// RegisterCompletion атомарно увеличивает счетчик выполнений внутри tx
	// и деактивирует задание при достижении лимита.
	RegisterCompletion(tx *gorm.DB, taskID string) error
}

type TaskFilter struct {
	Category models.TaskCategory
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) FindByID(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *TaskRepositoryImpl) Update(task *models.Task) error {
	result := r.db.Model(task).Updates(map[string]interface{}{
		"title":              task.Title,
		"description":        task.Description,
		"category":           task.Category,
		"reward":             task.Reward,
		"time_limit_minutes": task.TimeLimitMinutes,
		"max_completions":    task.MaxCompletions,
		"task_link":          task.TaskLink,
		"is_active":          task.IsActive,
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Deactivate(id string) error {
	result := r.db.Model(&models.Task{}).Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) FindWithFilter(criteria TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.IsActive != nil {
		query = query.Where("is_active = ?", *criteria.IsActive)
	}
	if criteria.Search != "" {
		query = query.Where("title ILIKE ?", "%"+criteria.Search+"%")
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

	var tasks []models.Task
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&tasks).Error
	return tasks, total, err
}

// FindActiveForUser возвращает активные задания, которые пользователь еще не
// отправлял или может переотправить (rejected).
func (r *TaskRepositoryImpl) FindActiveForUser(userID string, limit, offset int) ([]models.Task, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	sub := r.db.Model(&models.TaskCompletion{}).
		Select("task_id").
		Where("user_id = ? AND status IN ?", userID,
			[]models.CompletionStatus{models.CompletionStatusSubmitted, models.CompletionStatusApproved})

	query := r.db.Model(&models.Task{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (r *TaskRepositoryImpl) RegisterCompletion(tx *gorm.DB, taskID string) error {
	result := tx.Exec(`
		UPDATE tasks
		SET current_completions = current_completions + 1,
		    is_active = CASE
		        WHEN max_completions > 0 AND current_completions + 1 >= max_completions THEN false
		        ELSE is_active
		    END,
		    updated_at = NOW()
		WHERE id = ?`, taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

package services

import (
	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type TaskService interface {
	// Публичный каталог
	ListForUser(userID string, query *dto.TaskListQuery) ([]models.Task, int64, error)
	GetByID(id string) (*models.Task, error)

	// Админские операции
	Create(req *dto.CreateTaskRequest) (*models.Task, error)
	Update(id string, req *dto.UpdateTaskRequest) (*models.Task, error)
	Deactivate(id string) error
	ListAll(query *dto.TaskListQuery) ([]models.Task, int64, error)
}

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
}

func NewTaskService(taskRepo repositories.TaskRepository) TaskService {
	return &TaskServiceImpl{taskRepo: taskRepo}
}

// ListForUser возвращает активные задания без уже отправленных/одобренных
// этим пользователем
func (s *TaskServiceImpl) ListForUser(userID string, query *dto.TaskListQuery) ([]models.Task, int64, error) {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}

	tasks, total, err := s.taskRepo.FindActiveForUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return tasks, total, nil
}

func (s *TaskServiceImpl) GetByID(id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) Create(req *dto.CreateTaskRequest) (*models.Task, error) {
	reward, err := decimal.NewFromString(req.Reward)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid reward amount")
	}

	task := &models.Task{
		Title:            req.Title,
		Description:      req.Description,
		Category:         models.TaskCategory(req.Category),
		Reward:           reward,
		TimeLimitMinutes: req.TimeLimitMinutes,
		MaxCompletions:   req.MaxCompletions,
		TaskLink:         req.TaskLink,
		IsActive:         true,
	}
	if task.TimeLimitMinutes == 0 {
		task.TimeLimitMinutes = 60
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) Update(id string, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Reward != nil {
		reward, parseErr := decimal.NewFromString(*req.Reward)
		if parseErr != nil {
			return nil, apperrors.NewBadRequestError("invalid reward amount")
		}
		task.Reward = reward
	}
	if req.TimeLimitMinutes != nil {
		task.TimeLimitMinutes = *req.TimeLimitMinutes
	}
	if req.MaxCompletions != nil {
		task.MaxCompletions = *req.MaxCompletions
	}
	if req.TaskLink != nil {
		task.TaskLink = *req.TaskLink
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) Deactivate(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.taskRepo.Deactivate(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *TaskServiceImpl) ListAll(query *dto.TaskListQuery) ([]models.Task, int64, error) {
	criteria := repositories.TaskFilter{
		Category: models.TaskCategory(query.Category),
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	tasks, total, err := s.taskRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return tasks, total, nil
}

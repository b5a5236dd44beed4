package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rupeestream_backend/internal/email"
	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type CompletionService interface {
	Submit(userID string, req *dto.SubmitCompletionRequest) (*models.TaskCompletion, error)
	ListForUser(userID string, page, pageSize int) ([]models.TaskCompletion, int64, error)
	ListForReview(query *dto.CompletionListQuery) ([]models.TaskCompletion, int64, error)

	// Approve/Reject - условные переходы submitted -> approved|rejected.
	// Повторное решение по той же строке получает invalid-status, деньги
	// начисляются не более одного раза.
	Approve(completionID, adminID string) error
	Reject(completionID, adminID, reason string) error
}

type CompletionServiceImpl struct {
	db                  *gorm.DB
	completionRepo      repositories.CompletionRepository
	taskRepo            repositories.TaskRepository
	userRepo            repositories.UserRepository
	ledgerService       LedgerService
	accountService      AccountService
	notificationService NotificationService
	emailProvider       email.Provider
}

func NewCompletionService(
	db *gorm.DB,
	completionRepo repositories.CompletionRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	ledgerService LedgerService,
	accountService AccountService,
	notificationService NotificationService,
	emailProvider email.Provider,
) CompletionService {
	return &CompletionServiceImpl{
		db:                  db,
		completionRepo:      completionRepo,
		taskRepo:            taskRepo,
		userRepo:            userRepo,
		ledgerService:       ledgerService,
		accountService:      accountService,
		notificationService: notificationService,
		emailProvider:       emailProvider,
	}
}

func (s *CompletionServiceImpl) Submit(userID string, req *dto.SubmitCompletionRequest) (*models.TaskCompletion, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.accountService.CheckActionAllowed(user); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(req.TaskID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !task.IsActive {
		return nil, apperrors.ErrInvalidOperation("completion", "Task is no longer active")
	}
	if task.MaxCompletions > 0 && task.CurrentCompletions >= task.MaxCompletions {
		return nil, apperrors.ErrInvalidOperation("completion", "Task completion limit reached")
	}

	proofData, proofImages, err := marshalProofs(req)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	existing, err := s.completionRepo.FindByUserAndTask(userID, req.TaskID)
	if err != nil && !apperrors.Is(err, repositories.ErrCompletionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if existing != nil {
		switch existing.Status {
		case models.CompletionStatusApproved:
			return nil, apperrors.ErrInvalidStatus("completion", "Task is already completed")
		case models.CompletionStatusSubmitted:
			return nil, apperrors.ErrInvalidStatus("completion", "Completion is already under review")
		case models.CompletionStatusRejected:
			// Ресабмит переиспользует строку: rejected -> submitted, attempts+1
			affected, resubmitErr := s.completionRepo.MarkResubmitted(existing.ID, proofData, proofImages)
			if resubmitErr != nil {
				return nil, apperrors.InternalError(resubmitErr)
			}
			if affected == 0 {
				return nil, apperrors.ErrInvalidStatus("completion", "Completion is already under review")
			}
			return s.completionRepo.FindByID(existing.ID)
		}
	}

	completion := &models.TaskCompletion{
		UserID:      userID,
		TaskID:      req.TaskID,
		Status:      models.CompletionStatusSubmitted,
		ProofData:   proofData,
		ProofImages: proofImages,
		Attempts:    1,
	}
	if err := s.completionRepo.Create(completion); err != nil {
		// Гонка двух сабмитов упирается в составной уникальный индекс
		return nil, apperrors.ErrConflict(err, "completion", "Completion already exists for this task")
	}
	return completion, nil
}

func (s *CompletionServiceImpl) ListForUser(userID string, page, pageSize int) ([]models.TaskCompletion, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	completions, total, err := s.completionRepo.FindByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return completions, total, nil
}

func (s *CompletionServiceImpl) ListForReview(query *dto.CompletionListQuery) ([]models.TaskCompletion, int64, error) {
	criteria := repositories.CompletionFilter{
		Status:   models.CompletionStatus(query.Status),
		TaskID:   query.TaskID,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	completions, total, err := s.completionRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return completions, total, nil
}

func (s *CompletionServiceImpl) Approve(completionID, adminID string) error {
	completion, err := s.completionRepo.FindByID(completionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCompletionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if completion.Task == nil {
		return apperrors.InternalError(fmt.Errorf("completion %s has no task", completionID))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, txErr := s.completionRepo.MarkApproved(tx, completionID, adminID)
		if txErr != nil {
			return apperrors.InternalError(txErr)
		}
		if affected == 0 {
			return apperrors.ErrInvalidStatus("completion", "Completion is not awaiting review")
		}

		if _, txErr = s.ledgerService.RecordEarningTx(
			tx,
			completion.UserID,
			models.EarningTypeTask,
			completion.Task.Reward,
			fmt.Sprintf("Reward: %s", completion.Task.Title),
			&completion.ID,
		); txErr != nil {
			return txErr
		}

		if txErr = s.taskRepo.RegisterCompletion(tx, completion.TaskID); txErr != nil {
			return apperrors.InternalError(txErr)
		}

		return s.notificationService.NotifyTx(tx, completion.UserID,
			"completion_reviewed", "Task approved",
			fmt.Sprintf("Your completion of %q was approved. ₹%s credited.",
				completion.Task.Title, completion.Task.Reward.StringFixed(2)),
			map[string]interface{}{"completion_id": completion.ID},
		)
	})
	if err != nil {
		return err
	}

	s.sendReviewEmail(completion, true, "")
	return nil
}

func (s *CompletionServiceImpl) Reject(completionID, adminID, reason string) error {
	completion, err := s.completionRepo.FindByID(completionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCompletionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, txErr := s.completionRepo.MarkRejected(tx, completionID, adminID, reason)
		if txErr != nil {
			return apperrors.InternalError(txErr)
		}
		if affected == 0 {
			return apperrors.ErrInvalidStatus("completion", "Completion is not awaiting review")
		}

		message := "Your task completion was rejected."
		if reason != "" {
			message = fmt.Sprintf("Your task completion was rejected: %s", reason)
		}
		return s.notificationService.NotifyTx(tx, completion.UserID,
			"completion_reviewed", "Task rejected", message,
			map[string]interface{}{"completion_id": completion.ID},
		)
	})
	if err != nil {
		return err
	}

	s.sendReviewEmail(completion, false, reason)
	return nil
}

func (s *CompletionServiceImpl) sendReviewEmail(completion *models.TaskCompletion, approved bool, reason string) {
	if s.emailProvider == nil {
		return
	}
	user, err := s.userRepo.FindByID(completion.UserID)
	if err != nil {
		return
	}
	taskTitle := ""
	if completion.Task != nil {
		taskTitle = completion.Task.Title
	}
	if err := s.emailProvider.SendCompletionReviewed(user.Email, user.Name, taskTitle, approved, reason); err != nil {
		logger.Warn("failed to send review email", "user_id", user.ID, "error", err)
	}
}

func marshalProofs(req *dto.SubmitCompletionRequest) (datatypes.JSON, datatypes.JSON, error) {
	var proofData datatypes.JSON
	if req.ProofData != nil {
		raw, err := json.Marshal(req.ProofData)
		if err != nil {
			return nil, nil, err
		}
		proofData = datatypes.JSON(raw)
	}

	images := req.ProofImages
	if images == nil {
		images = []string{}
	}
	rawImages, err := json.Marshal(images)
	if err != nil {
		return nil, nil, err
	}
	return proofData, datatypes.JSON(rawImages), nil
}

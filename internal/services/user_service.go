package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateBankDetails(userID string, req *dto.UpdateBankDetailsRequest) error

	// Админские операции
	ListUsers(query *dto.UserListQuery) ([]models.User, int64, error)
	GetUser(userID string) (*models.User, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateBankDetails(userID string, req *dto.UpdateBankDetailsRequest) error {
	details := models.BankDetails{
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateBankDetails(userID, datatypes.JSON(raw)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *UserServiceImpl) ListUsers(query *dto.UserListQuery) ([]models.User, int64, error) {
	criteria := repositories.UserFilter{
		Status:    models.UserStatus(query.Status),
		KYCStatus: models.KYCStatus(query.KYCStatus),
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	users, total, err := s.userRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return users, total, nil
}

func (s *UserServiceImpl) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

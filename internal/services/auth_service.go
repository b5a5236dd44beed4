package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rupeestream_backend/internal/auth"
	"rupeestream_backend/internal/config"
	"rupeestream_backend/internal/email"
	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/pkg/apperrors"
)

const referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
}

type AuthServiceImpl struct {
	db            *gorm.DB
	cfg           *config.Config
	userRepo      repositories.UserRepository
	ledgerService LedgerService
	emailProvider email.Provider
}

func NewAuthService(
	db *gorm.DB,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	ledgerService LedgerService,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		db:            db,
		cfg:           cfg,
		userRepo:      userRepo,
		ledgerService: ledgerService,
		emailProvider: emailProvider,
	}
}

// Register - регистрация: пользователь, приветственный бонус и реферальная
// связь создаются одной транзакцией.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	// Пригласивший ищется до транзакции: невалидный код - ошибка запроса,
	// а не молчаливая регистрация без бонуса пригласившему
	var referrer *models.User
	if req.ReferralCode != "" {
		found, err := s.userRepo.FindByReferralCode(req.ReferralCode)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.NewBadRequestError("Unknown referral code")
			}
			return nil, apperrors.InternalError(err)
		}
		referrer = found
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	referralCode, err := s.generateReferralCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
		ReferralCode: referralCode,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(user).Error; txErr != nil {
			return apperrors.ErrConflict(txErr, "auth", "Could not create account")
		}

		if _, txErr := s.ledgerService.RecordEarningTx(
			tx, user.ID, models.EarningTypeSignupBonus, models.SignupBonusAmount,
			"Welcome bonus", nil,
		); txErr != nil {
			return txErr
		}

		if referrer != nil {
			referral := &models.Referral{
				ReferrerID: referrer.ID,
				ReferredID: user.ID,
			}
			if txErr := tx.Create(referral).Error; txErr != nil {
				return apperrors.InternalError(txErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.emailProvider != nil {
		if mailErr := s.emailProvider.SendWelcome(user.Email, user.Name); mailErr != nil {
			logger.Warn("failed to send welcome email", "user_id", user.ID, "error", mailErr)
		}
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Приостановленный пользователь входит: ему нужно дойти до оплаты
	// реактивации. Забаненный - нет.
	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrAccountBanned
	}

	if err := s.userRepo.UpdateLastActive(user.ID); err != nil {
		logger.Warn("failed to update last_active_at", "user_id", user.ID, "error", err)
	}

	return s.issueTokens(user)
}

// Refresh - ротация: старый refresh-токен удаляется, выдается новая пара.
func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrAccountBanned
	}

	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", string(hashed)).Error
	if err != nil {
		return apperrors.InternalError(err)
	}

	// Старые сессии закрываются
	if err := s.userRepo.DeleteUserRefreshTokens(userID); err != nil {
		logger.Warn("failed to revoke refresh tokens", "user_id", userID, "error", err)
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.TTL) * time.Minute)

	refreshToken, err := generateRandomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshTTLDays := s.cfg.JWT.RefreshTTLDays
	if refreshTTLDays <= 0 {
		refreshTTLDays = 30
	}
	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(time.Duration(refreshTTLDays) * 24 * time.Hour),
	}
	if err := s.userRepo.CreateRefreshToken(stored); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.ToUserResponse(user),
	}, nil
}

// generateReferralCode - уникальный код формата EP-XXXXXX
func (s *AuthServiceImpl) generateReferralCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := make([]byte, 6)
		for i, b := range buf {
			code[i] = referralCodeCharset[int(b)%len(referralCodeCharset)]
		}
		candidate := "EP-" + string(code)

		_, err := s.userRepo.FindByReferralCode(candidate)
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate unique referral code")
}

func generateRandomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

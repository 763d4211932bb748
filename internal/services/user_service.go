package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/repository"
)

const (
	// MinUsernameLength and MinPasswordLength bound new credentials.
	MinUsernameLength = 4
	MinPasswordLength = 4
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user together with an empty portfolio.
func (s *userService) CreateUser(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username must be at least 4 characters")
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 4 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Settings: models.DefaultSettings(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		assets, err := repository.NewAssetStore(tx).Create(tx.Statement.Context, user.ID)
		if err != nil {
			return err
		}
		user.Assets = assets
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// UpdateSettings applies the non-nil fields of update to the user's settings.
func (s *userService) UpdateSettings(userID string, update SettingsUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.BalanceThreshold != nil {
		if update.BalanceThreshold.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance threshold must not be negative")
		}
		user.Settings.BalanceThreshold = *update.BalanceThreshold
	}
	if update.Email != nil {
		user.Settings.Email = strings.TrimSpace(*update.Email)
	}
	if update.AlertFrequency != nil {
		if !update.AlertFrequency.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert frequency must be one of never, daily, weekly, monthly")
		}
		user.Settings.AlertFrequency = *update.AlertFrequency
	}

	err = s.db.Model(user).Select("settings_balance_threshold", "settings_email", "settings_alert_frequency").
		Updates(user).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

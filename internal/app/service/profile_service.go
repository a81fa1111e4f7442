package service

import (
	"errors"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"github.com/jinwoo-dev/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("current password is incorrect")

// ProfileUpdateInput carries optional fields; nil means "leave unchanged".
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Bio       *string
}

type ProfileView struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
}

type ProfileService interface {
	GetProfile(userID uint) (*ProfileView, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*ProfileView, error)
	ChangePassword(userID uint, current, next string) error
}

type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	db          *gorm.DB
}

func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, db *gorm.DB) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		db:          db,
	}
}

func (s *profileService) GetProfile(userID uint) (*ProfileView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.getOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	return buildProfileView(user, profile), nil
}

func (s *profileService) UpdateProfile(userID uint, input ProfileUpdateInput) (*ProfileView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.getOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Avatar != nil {
		profile.Avatar = *input.Avatar
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return buildProfileView(user, profile), nil
}

func (s *profileService) ChangePassword(userID uint, current, next string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, current) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrWrongPassword
	}

	hash, err := util.HashPassword(next)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// getOrCreateProfile lazily creates the profile row for accounts that
// predate it, absorbing a concurrent creation of the same row.
func (s *profileService) getOrCreateProfile(userID uint) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &model.Profile{UserID: userID}
	if err := s.profileRepo.Create(profile); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return s.profileRepo.FindByUserID(userID)
		}
		return nil, err
	}
	return profile, nil
}

func buildProfileView(user *model.User, profile *model.Profile) *ProfileView {
	return &ProfileView{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
		Avatar:    profile.Avatar,
		Bio:       profile.Bio,
	}
}

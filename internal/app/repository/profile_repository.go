package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByUserID(userID uint) (*model.Profile, error)
	Update(profile *model.Profile) error
	DeleteByUserID(userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	logger.Debug("Creating profile in database", map[string]interface{}{
		"user_id": profile.UserID,
	})

	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create profile in database", err, map[string]interface{}{
			"user_id": profile.UserID,
		})
		return err
	}
	return nil
}

func (r *profileRepository) FindByUserID(userID uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	logger.Debug("Updating profile in database", map[string]interface{}{
		"profile_id": profile.ID,
		"user_id":    profile.UserID,
	})

	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update profile in database", err, map[string]interface{}{
			"profile_id": profile.ID,
		})
		return err
	}
	return nil
}

func (r *profileRepository) DeleteByUserID(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.Profile{}).Error; err != nil {
		logger.Error("Failed to delete profile from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

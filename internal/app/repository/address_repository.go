package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	FindByUserID(userID uint) ([]model.Address, error)
	FindByIDAndUserID(id, userID uint) (*model.Address, error)
	FindDefaultByUserID(userID uint) (*model.Address, error)
	FindOldestByUserID(userID uint) (*model.Address, error)
	ClearDefault(userID uint) error
	Update(address *model.Address) error
	Delete(address *model.Address) error
	DeleteByUserID(userID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id":    address.UserID,
		"is_default": address.IsDefault,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
	})
	return nil
}

// FindByUserID returns the default address first, then the rest oldest-first.
func (r *addressRepository) FindByUserID(userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) FindByIDAndUserID(id, userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindDefaultByUserID(userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// FindOldestByUserID returns the oldest surviving address, breaking
// creation-time ties by lowest ID.
func (r *addressRepository) FindOldestByUserID(userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ClearDefault(userID uint) error {
	err := r.db.Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		logger.Error("Failed to clear default address in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Update(address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(address *model.Address) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.Delete(address).Error; err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) DeleteByUserID(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.Address{}).Error; err != nil {
		logger.Error("Failed to delete addresses by user from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

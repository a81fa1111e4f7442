package service

import (
	"errors"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressInput struct {
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
}

// AddressUpdateInput carries optional fields; nil means "leave unchanged".
// Setting IsDefault to false is ignored: the default moves only when
// another address claims it.
type AddressUpdateInput struct {
	Street    *string
	City      *string
	State     *string
	ZipCode   *string
	Country   *string
	IsDefault *bool
}

type AddressService interface {
	ListAddresses(userID uint) ([]model.Address, error)
	CreateAddress(userID uint, input AddressInput) ([]model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressUpdateInput) ([]model.Address, error)
	DeleteAddress(userID, addressID uint) ([]model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
	db          *gorm.DB
}

func NewAddressService(addressRepo repository.AddressRepository, db *gorm.DB) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		db:          db,
	}
}

func (s *addressService) ListAddresses(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

// CreateAddress adds an address. The user's first address becomes the
// default no matter what the request says; a later address becomes the
// default only when asked, displacing the current one.
func (s *addressService) CreateAddress(userID uint, input AddressInput) ([]model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id":    userID,
		"is_default": input.IsDefault,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		addressRepo := repository.NewAddressRepository(tx)

		existing, err := addressRepo.FindByUserID(userID)
		if err != nil {
			return err
		}

		address := &model.Address{
			UserID:    userID,
			Street:    input.Street,
			City:      input.City,
			State:     input.State,
			ZipCode:   input.ZipCode,
			Country:   input.Country,
			IsDefault: input.IsDefault,
		}

		if len(existing) == 0 {
			address.IsDefault = true
		} else if input.IsDefault {
			if err := addressRepo.ClearDefault(userID); err != nil {
				return err
			}
		}

		return addressRepo.Create(address)
	})
	if err != nil {
		return nil, err
	}

	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressUpdateInput) ([]model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		addressRepo := repository.NewAddressRepository(tx)

		address, err := addressRepo.FindByIDAndUserID(addressID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		if input.Street != nil {
			address.Street = *input.Street
		}
		if input.City != nil {
			address.City = *input.City
		}
		if input.State != nil {
			address.State = *input.State
		}
		if input.ZipCode != nil {
			address.ZipCode = *input.ZipCode
		}
		if input.Country != nil {
			address.Country = *input.Country
		}

		if input.IsDefault != nil && *input.IsDefault && !address.IsDefault {
			if err := addressRepo.ClearDefault(userID); err != nil {
				return err
			}
			address.IsDefault = true
		}

		return addressRepo.Update(address)
	})
	if err != nil {
		return nil, err
	}

	return s.addressRepo.FindByUserID(userID)
}

// DeleteAddress removes an address. When the default is deleted and other
// addresses remain, the oldest surviving one is promoted so the user never
// ends up with addresses but no default.
func (s *addressService) DeleteAddress(userID, addressID uint) ([]model.Address, error) {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		addressRepo := repository.NewAddressRepository(tx)

		address, err := addressRepo.FindByIDAndUserID(addressID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		wasDefault := address.IsDefault
		if err := addressRepo.Delete(address); err != nil {
			return err
		}

		if !wasDefault {
			return nil
		}

		next, err := addressRepo.FindOldestByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next.IsDefault = true
		return addressRepo.Update(next)
	})
	if err != nil {
		return nil, err
	}

	return s.addressRepo.FindByUserID(userID)
}

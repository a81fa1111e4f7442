package service

import (
	"errors"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemExists   = errors.New("product already in wishlist")
	ErrWishlistItemNotFound = errors.New("product not in wishlist")
	ErrWishlistNotFound     = errors.New("wishlist not found")
)

type WishlistService interface {
	GetWishlist(userID uint) (*model.Wishlist, error)
	AddProduct(userID, productID uint) (*model.Wishlist, error)
	RemoveProduct(userID, productID uint) (*model.Wishlist, error)
	ClearWishlist(userID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository, db *gorm.DB) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		db:           db,
	}
}

// GetWishlist returns the user's wishlist, creating an empty one on first
// access.
func (s *wishlistService) GetWishlist(userID uint) (*model.Wishlist, error) {
	if _, err := s.getOrCreateWishlist(s.wishlistRepo, userID); err != nil {
		return nil, err
	}
	return s.wishlistRepo.FindByUserIDWithItems(userID)
}

// AddProduct saves a product to the wishlist. The wishlist is a set:
// adding a product already present is a conflict, not a merge.
func (s *wishlistService) AddProduct(userID, productID uint) (*model.Wishlist, error) {
	logger.Info("Adding product to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		wishlistRepo := repository.NewWishlistRepository(tx)
		productRepo := repository.NewProductRepository(tx)

		if _, err := productRepo.FindByID(productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		wishlist, err := s.getOrCreateWishlist(wishlistRepo, userID)
		if err != nil {
			return err
		}

		item := &model.WishlistItem{
			WishlistID: wishlist.ID,
			ProductID:  productID,
		}
		if err := wishlistRepo.CreateItem(item); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return ErrWishlistItemExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.wishlistRepo.FindByUserIDWithItems(userID)
}

// RemoveProduct takes a product off the wishlist. Removing a product that
// is not there fails, so a double remove is visible to the caller.
func (s *wishlistService) RemoveProduct(userID, productID uint) (*model.Wishlist, error) {
	logger.Info("Removing product from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		wishlistRepo := repository.NewWishlistRepository(tx)

		wishlist, err := wishlistRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWishlistItemNotFound
			}
			return err
		}

		item, err := wishlistRepo.FindItemByWishlistAndProduct(wishlist.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWishlistItemNotFound
			}
			return err
		}

		return wishlistRepo.DeleteItem(item)
	})
	if err != nil {
		return nil, err
	}

	return s.wishlistRepo.FindByUserIDWithItems(userID)
}

// ClearWishlist removes every saved product. Unlike the other operations
// it does not create the wishlist on the fly: clearing a wishlist the
// user never had is not found.
func (s *wishlistService) ClearWishlist(userID uint) error {
	logger.Info("Clearing wishlist", map[string]interface{}{
		"user_id": userID,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		wishlistRepo := repository.NewWishlistRepository(tx)

		wishlist, err := wishlistRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWishlistNotFound
			}
			return err
		}

		return wishlistRepo.DeleteItemsByWishlistID(wishlist.ID)
	})
}

func (s *wishlistService) getOrCreateWishlist(wishlistRepo repository.WishlistRepository, userID uint) (*model.Wishlist, error) {
	wishlist, err := wishlistRepo.FindByUserID(userID)
	if err == nil {
		return wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = &model.Wishlist{UserID: userID}
	if err := wishlistRepo.Create(wishlist); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return wishlistRepo.FindByUserID(userID)
		}
		return nil, err
	}
	return wishlist, nil
}

package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Create(wishlist *model.Wishlist) error
	FindByUserID(userID uint) (*model.Wishlist, error)
	FindByUserIDWithItems(userID uint) (*model.Wishlist, error)
	DeleteByUserID(userID uint) error

	CreateItem(item *model.WishlistItem) error
	FindItemByWishlistAndProduct(wishlistID, productID uint) (*model.WishlistItem, error)
	DeleteItem(item *model.WishlistItem) error
	DeleteItemsByWishlistID(wishlistID uint) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(wishlist *model.Wishlist) error {
	logger.Debug("Creating wishlist in database", map[string]interface{}{
		"user_id": wishlist.UserID,
	})

	if err := r.db.Create(wishlist).Error; err != nil {
		logger.Error("Failed to create wishlist in database", err, map[string]interface{}{
			"user_id": wishlist.UserID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) FindByUserID(userID uint) (*model.Wishlist, error) {
	var wishlist model.Wishlist
	err := r.db.Where("user_id = ?", userID).First(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// FindByUserIDWithItems loads the wishlist with its items and their
// products, items ordered by when they were added.
func (r *wishlistRepository) FindByUserIDWithItems(userID uint) (*model.Wishlist, error) {
	var wishlist model.Wishlist
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishlist_items.created_at ASC, wishlist_items.id ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) DeleteByUserID(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&model.Wishlist{}).Error
	if err != nil {
		logger.Error("Failed to delete wishlist by user from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) CreateItem(item *model.WishlistItem) error {
	logger.Debug("Creating wishlist item in database", map[string]interface{}{
		"wishlist_id": item.WishlistID,
		"product_id":  item.ProductID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create wishlist item in database", err, map[string]interface{}{
			"wishlist_id": item.WishlistID,
			"product_id":  item.ProductID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) FindItemByWishlistAndProduct(wishlistID, productID uint) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) DeleteItem(item *model.WishlistItem) error {
	logger.Debug("Deleting wishlist item from database", map[string]interface{}{
		"wishlist_item_id": item.ID,
		"wishlist_id":      item.WishlistID,
	})

	if err := r.db.Delete(item).Error; err != nil {
		logger.Error("Failed to delete wishlist item from database", err, map[string]interface{}{
			"wishlist_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) DeleteItemsByWishlistID(wishlistID uint) error {
	err := r.db.Where("wishlist_id = ?", wishlistID).Delete(&model.WishlistItem{}).Error
	if err != nil {
		logger.Error("Failed to clear wishlist items from database", err, map[string]interface{}{
			"wishlist_id": wishlistID,
		})
		return err
	}
	return nil
}

package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByUserID(userID uint) (*model.Cart, error)
	FindByUserIDWithItems(userID uint) (*model.Cart, error)
	Touch(cart *model.Cart) error
	DeleteByUserID(userID uint) error

	CreateItem(item *model.CartItem) error
	FindItemByID(id uint) (*model.CartItem, error)
	FindItemByCartAndProduct(cartID, productID uint) (*model.CartItem, error)
	UpdateItem(item *model.CartItem) error
	DeleteItem(item *model.CartItem) error
	DeleteItemsByCartID(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByUserIDWithItems loads the cart with its items and their products,
// items ordered oldest-first.
func (r *cartRepository) FindByUserIDWithItems(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC, cart_items.id ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Touch bumps the cart's UpdatedAt so item mutations are visible on the parent.
func (r *cartRepository) Touch(cart *model.Cart) error {
	err := r.db.Model(cart).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	if err != nil {
		logger.Error("Failed to touch cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.Cart{}).Error; err != nil {
		logger.Error("Failed to delete cart by user from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Cart").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByCartAndProduct(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(item *model.CartItem) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
	})

	if err := r.db.Delete(item).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to delete cart items by cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

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
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrProductNotFound  = errors.New("product not found")
)

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID, productID uint, quantity int) (*model.Cart, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	ClearCart(userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, db *gorm.DB) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	if _, err := s.getOrCreateCart(s.cartRepo, userID); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByUserIDWithItems(userID)
}

// AddItem puts a product in the cart. Adding a product already present
// merges into the existing line: quantities add up, the price snapshot
// taken on first add stays.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)
		productRepo := repository.NewProductRepository(tx)

		product, err := productRepo.FindByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		cart, err := s.getOrCreateCart(cartRepo, userID)
		if err != nil {
			return err
		}

		item, err := cartRepo.FindItemByCartAndProduct(cart.ID, productID)
		switch {
		case err == nil:
			item.Quantity += quantity
			if err := cartRepo.UpdateItem(item); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &model.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.Price,
			}
			if err := cartRepo.CreateItem(item); err != nil {
				if apperrors.IsUniqueViolation(err) {
					// A concurrent add for the same product created the
					// line first; merge into it instead.
					existing, findErr := cartRepo.FindItemByCartAndProduct(cart.ID, productID)
					if findErr != nil {
						return findErr
					}
					existing.Quantity += quantity
					return cartRepo.UpdateItem(existing)
				}
				return err
			}
		default:
			return err
		}

		return cartRepo.Touch(cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserIDWithItems(userID)
}

// UpdateItemQuantity replaces a line's quantity. The item must belong to
// the caller's cart; anything else reads as not found.
func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)

		item, err := s.findOwnedItem(cartRepo, userID, itemID)
		if err != nil {
			return err
		}

		item.Quantity = quantity
		if err := cartRepo.UpdateItem(item); err != nil {
			return err
		}
		return cartRepo.Touch(&item.Cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserIDWithItems(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)

		item, err := s.findOwnedItem(cartRepo, userID, itemID)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItem(item); err != nil {
			return err
		}
		return cartRepo.Touch(&item.Cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserIDWithItems(userID)
}

// ClearCart empties the cart. Clearing an already empty cart succeeds.
func (s *cartService) ClearCart(userID uint) (*model.Cart, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)

		cart, err := s.getOrCreateCart(cartRepo, userID)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
			return err
		}
		return cartRepo.Touch(cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserIDWithItems(userID)
}

// getOrCreateCart resolves the user's single cart. Concurrent first
// accesses race on the unique user index; the loser re-reads the
// winner's row.
func (s *cartService) getOrCreateCart(cartRepo repository.CartRepository, userID uint) (*model.Cart, error) {
	cart, err := cartRepo.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{UserID: userID}
	if err := cartRepo.Create(cart); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return cartRepo.FindByUserID(userID)
		}
		return nil, err
	}
	return cart, nil
}

// findOwnedItem loads a cart item and checks it sits in the caller's
// cart. Items in someone else's cart are reported as not found, not
// forbidden, so item IDs don't leak across users.
func (s *cartService) findOwnedItem(cartRepo repository.CartRepository, userID, itemID uint) (*model.CartItem, error) {
	item, err := cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.Cart.UserID != userID {
		logger.Warn("Cart item ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
		})
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

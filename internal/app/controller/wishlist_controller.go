package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

type AddWishlistItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type WishlistResponse struct {
	ID    uint                 `json:"id"`
	Items []model.WishlistItem `json:"items"`
	Count int                  `json:"count"`
}

func buildWishlistResponse(wishlist *model.Wishlist) WishlistResponse {
	items := wishlist.Items
	if items == nil {
		items = []model.WishlistItem{}
	}
	return WishlistResponse{
		ID:    wishlist.ID,
		Items: items,
		Count: len(items),
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	wishlist, err := ctrl.wishlistService.GetWishlist(userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to load wishlist")
		return
	}

	c.JSON(http.StatusOK, buildWishlistResponse(wishlist))
}

// AddProduct handles POST /api/v1/wishlist
func (ctrl *WishlistController) AddProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	wishlist, err := ctrl.wishlistService.AddProduct(userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrWishlistItemExists):
			apperrors.Conflict(c, apperrors.WishlistItemDuplicate, "Product is already in the wishlist")
		default:
			apperrors.InternalError(c, "Failed to add product to wishlist")
		}
		return
	}

	c.JSON(http.StatusCreated, buildWishlistResponse(wishlist))
}

// RemoveProduct handles DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) RemoveProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	wishlist, err := ctrl.wishlistService.RemoveProduct(userID, productID)
	if err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			apperrors.NotFound(c, apperrors.WishlistItemNotFound, "Product is not in the wishlist")
			return
		}
		apperrors.InternalError(c, "Failed to remove product from wishlist")
		return
	}

	c.JSON(http.StatusOK, buildWishlistResponse(wishlist))
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (ctrl *WishlistController) ClearWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.wishlistService.ClearWishlist(userID); err != nil {
		if errors.Is(err, service.ErrWishlistNotFound) {
			apperrors.NotFound(c, apperrors.WishlistNotFound, "Wishlist not found")
			return
		}
		apperrors.InternalError(c, "Failed to clear wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared"})
}

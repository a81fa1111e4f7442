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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartResponse is the cart aggregate every cart endpoint returns, with
// totals computed from the price snapshots.
type CartResponse struct {
	ID            uint               `json:"id"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	TotalPrice    float64            `json:"total_price"`
	UpdatedAt     string             `json:"updated_at"`
}

type CartItemResponse struct {
	ID        uint           `json:"id"`
	ProductID uint           `json:"product_id"`
	Product   *model.Product `json:"product,omitempty"`
	Quantity  int            `json:"quantity"`
	Price     float64        `json:"price"`
	LineTotal float64        `json:"line_total"`
}

func buildCartResponse(cart *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := item.Product
		items = append(items, CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   &product,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal(),
		})
	}
	return CartResponse{
		ID:            cart.ID,
		Items:         items,
		TotalQuantity: cart.TotalQuantity(),
		TotalPrice:    cart.TotalPrice(),
		UpdatedAt:     cart.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetCart handles GET /api/v1/carts
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(cart))
}

// AddItem handles POST /api/v1/carts/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			apperrors.InternalError(c, "Failed to add item to cart")
		}
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(cart))
}

// UpdateItem handles PUT /api/v1/carts/items/:itemId
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			apperrors.InternalError(c, "Failed to update cart item")
		}
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(cart))
}

// RemoveItem handles DELETE /api/v1/carts/items/:itemId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		apperrors.InternalError(c, "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(cart))
}

// ClearCart handles DELETE /api/v1/carts
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.ClearCart(userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(cart))
}

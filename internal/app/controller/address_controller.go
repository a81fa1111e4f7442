package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{addressService: addressService}
}

type CreateAddressRequest struct {
	Street    string `json:"street" binding:"required,max=200"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"required,max=100"`
	ZipCode   string `json:"zip_code" binding:"required,max=20"`
	Country   string `json:"country" binding:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Street    *string `json:"street" binding:"omitempty,max=200"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	State     *string `json:"state" binding:"omitempty,max=100"`
	ZipCode   *string `json:"zip_code" binding:"omitempty,max=20"`
	Country   *string `json:"country" binding:"omitempty,max=100"`
	IsDefault *bool   `json:"is_default"`
}

type AddressListResponse struct {
	Addresses []model.Address `json:"addresses"`
}

// ListAddresses handles GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.ListAddresses(userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to load addresses")
		return
	}

	c.JSON(http.StatusOK, AddressListResponse{Addresses: addresses})
}

// CreateAddress handles POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	addresses, err := ctrl.addressService.CreateAddress(userID, service.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		apperrors.FromDBError(c, err, "address")
		return
	}

	c.JSON(http.StatusCreated, AddressListResponse{Addresses: addresses})
}

// UpdateAddress handles PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	addresses, err := ctrl.addressService.UpdateAddress(userID, addressID, service.AddressUpdateInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		apperrors.InternalError(c, "Failed to update address")
		return
	}

	c.JSON(http.StatusOK, AddressListResponse{Addresses: addresses})
}

// DeleteAddress handles DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.DeleteAddress(userID, addressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete address")
		return
	}

	c.JSON(http.StatusOK, AddressListResponse{Addresses: addresses})
}

// parseIDParam reads a positive integer path parameter, responding with a
// validation error on anything else.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

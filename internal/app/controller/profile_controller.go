package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Avatar    *string `json:"avatar" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// GetProfile handles GET /api/v1/profile
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	profile, err := ctrl.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (ctrl *ProfileController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	profile, err := ctrl.profileService.UpdateProfile(userID, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ChangePassword handles PUT /api/v1/profile/password
func (ctrl *ProfileController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	err := ctrl.profileService.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			apperrors.BadRequest(c, apperrors.AuthWrongPassword, "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			apperrors.InternalError(c, "Failed to change password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

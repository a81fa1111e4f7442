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

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// Register handles POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
		case errors.Is(err, service.ErrUsernameExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
		default:
			apperrors.InternalError(c, "Failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Login handles POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		apperrors.InternalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout handles POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, ok := middleware.GetAccessToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			return
		}
		apperrors.InternalError(c, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Refresh handles POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid refresh token")
			return
		}
		apperrors.InternalError(c, "Failed to refresh tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Me handles GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteAccount handles DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.DeleteAccount(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

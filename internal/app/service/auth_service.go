package service

import (
	"context"
	"errors"
	"time"

	"github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"github.com/jinwoo-dev/storefront-backend/pkg/redis"
	"github.com/jinwoo-dev/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	Refresh(refreshToken string) (*util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	DeleteAccount(userID uint) error
}

type authService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, db *gorm.DB, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		db:       db,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	logger.Info("Registering user", map[string]interface{}{
		"username": input.Username,
		"email":    input.Email,
	})

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, nil, err
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Profile:      &model.Profile{},
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			// Lost a race with a concurrent registration on the same
			// email or username.
			if _, findErr := s.userRepo.FindByEmail(input.Email); findErr == nil {
				return nil, nil, ErrEmailExists
			}
			return nil, nil, ErrUsernameExists
		}
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// Logout blacklists the presented access token for the remainder of its
// lifetime so it can no longer pass authentication.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtCfg.Secret)
	if err != nil {
		return ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's cart, wishlist, addresses and profile,
// then soft-deletes the user, all in one transaction.
func (s *authService) DeleteAccount(userID uint) error {
	logger.Info("Deleting account", map[string]interface{}{
		"user_id": userID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		cartRepo := repository.NewCartRepository(tx)
		wishlistRepo := repository.NewWishlistRepository(tx)
		addressRepo := repository.NewAddressRepository(tx)
		profileRepo := repository.NewProfileRepository(tx)

		if _, err := userRepo.FindByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		cart, err := cartRepo.FindByUserID(userID)
		if err == nil {
			if err := cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := cartRepo.DeleteByUserID(userID); err != nil {
			return err
		}

		wishlist, err := wishlistRepo.FindByUserID(userID)
		if err == nil {
			if err := wishlistRepo.DeleteItemsByWishlistID(wishlist.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := wishlistRepo.DeleteByUserID(userID); err != nil {
			return err
		}

		if err := addressRepo.DeleteByUserID(userID); err != nil {
			return err
		}
		if err := profileRepo.DeleteByUserID(userID); err != nil {
			return err
		}

		return userRepo.Delete(userID)
	})
	if err != nil {
		return err
	}

	logger.Info("Account deleted", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		user.Email,
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

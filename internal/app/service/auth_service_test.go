package service

import (
	"testing"
	"time"

	"github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/jinwoo-dev/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

func setupAuthTest(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	userRepo := repository.NewUserRepository(database)
	return NewAuthService(userRepo, database, testJWTConfig()), database
}

func TestRegister(t *testing.T) {
	svc, _ := setupAuthTest(t)

	user, tokens, err := svc.Register(RegisterInput{
		Username: "jinwoo",
		Email:    "jinwoo@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Register(RegisterInput{Username: "first", Email: "same@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Username: "second", Email: "same@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Register(RegisterInput{Username: "same", Email: "first@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Username: "same", Email: "second@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLogin(t *testing.T) {
	svc, _ := setupAuthTest(t)

	registered, _, err := svc.Register(RegisterInput{Username: "jinwoo", Email: "jinwoo@example.com", Password: "password123"})
	require.NoError(t, err)

	user, tokens, err := svc.Login("jinwoo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Register(RegisterInput{Username: "jinwoo", Email: "jinwoo@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = svc.Login("jinwoo@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, tokens, err := svc.Register(RegisterInput{Username: "jinwoo", Email: "jinwoo@example.com", Password: "password123"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, tokens, err := svc.Register(RegisterInput{Username: "jinwoo", Email: "jinwoo@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccount_CascadesOwnedData(t *testing.T) {
	svc, database := setupAuthTest(t)

	user, _, err := svc.Register(RegisterInput{Username: "jinwoo", Email: "jinwoo@example.com", Password: "password123"})
	require.NoError(t, err)

	product := createTestProduct(t, database, "Desk Lamp", 19.90)

	cartRepo := repository.NewCartRepository(database)
	productRepo := repository.NewProductRepository(database)
	wishlistRepo := repository.NewWishlistRepository(database)
	addressRepo := repository.NewAddressRepository(database)

	cartSvc := NewCartService(cartRepo, productRepo, database)
	_, err = cartSvc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	wishSvc := NewWishlistService(wishlistRepo, productRepo, database)
	_, err = wishSvc.AddProduct(user.ID, product.ID)
	require.NoError(t, err)

	addrSvc := NewAddressService(addressRepo, database)
	_, err = addrSvc.CreateAddress(user.ID, addressInput("Springfield", true))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(user.ID))

	_, err = svc.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	for table, m := range map[string]interface{}{
		"carts":          &model.Cart{},
		"cart_items":     &model.CartItem{},
		"wishlists":      &model.Wishlist{},
		"wishlist_items": &model.WishlistItem{},
	} {
		var count int64
		require.NoError(t, database.Model(m).Count(&count).Error, table)
		assert.Zero(t, count, table)
	}

	addresses, err := addrSvc.ListAddresses(user.ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)

	// The account cannot log in anymore.
	_, _, err = svc.Login("jinwoo@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccount_Unknown(t *testing.T) {
	svc, _ := setupAuthTest(t)

	err := svc.DeleteAccount(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

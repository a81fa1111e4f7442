package service

import (
	"sync"
	"testing"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistTest(t *testing.T) (WishlistService, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	wishlistRepo := repository.NewWishlistRepository(database)
	productRepo := repository.NewProductRepository(database)
	return NewWishlistService(wishlistRepo, productRepo, database), database
}

func TestGetWishlist_CreatesOnFirstAccess(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")

	wishlist, err := svc.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, wishlist.ID)
	assert.Empty(t, wishlist.Items)

	again, err := svc.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.Equal(t, wishlist.ID, again.ID)
}

func TestAddProduct(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	product := createTestProduct(t, database, "Skillet", 24.99)

	wishlist, err := svc.AddProduct(user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 1)
	assert.Equal(t, product.ID, wishlist.Items[0].ProductID)
	assert.Equal(t, "Skillet", wishlist.Items[0].Product.Name)
}

func TestAddProduct_DuplicateIsConflict(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	product := createTestProduct(t, database, "Skillet", 24.99)

	_, err := svc.AddProduct(user.ID, product.ID)
	require.NoError(t, err)
	_, err = svc.AddProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemExists)

	wishlist, err := svc.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.Len(t, wishlist.Items, 1)
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")

	_, err := svc.AddProduct(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemoveProduct(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	product := createTestProduct(t, database, "Skillet", 24.99)

	_, err := svc.AddProduct(user.ID, product.ID)
	require.NoError(t, err)

	wishlist, err := svc.RemoveProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items)

	// Double remove is visible, not silently idempotent.
	_, err = svc.RemoveProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}

func TestRemoveProduct_NeverAdded(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	product := createTestProduct(t, database, "Skillet", 24.99)

	_, err := svc.RemoveProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}

func TestClearWishlist(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	first := createTestProduct(t, database, "Skillet", 24.99)
	second := createTestProduct(t, database, "Tote Bag", 12.00)

	_, err := svc.AddProduct(user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.AddProduct(user.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ClearWishlist(user.ID))

	wishlist, err := svc.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items)
}

func TestClearWishlist_NeverCreated(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")

	err := svc.ClearWishlist(user.ID)
	assert.ErrorIs(t, err, ErrWishlistNotFound)
}

func TestAddProduct_ConcurrentSameProduct(t *testing.T) {
	svc, database := setupWishlistTest(t)
	user := createTestUser(t, database, "wishuser")
	product := createTestProduct(t, database, "Skillet", 24.99)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddProduct(user.ID, product.ID)
		}(i)
	}
	wg.Wait()

	// One add wins, the other reports the duplicate.
	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, ErrWishlistItemExists)
		}
	}
	assert.Equal(t, 1, okCount)

	var count int64
	require.NoError(t, database.Model(&model.WishlistItem{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

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

func setupAddressTest(t *testing.T) (AddressService, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	addressRepo := repository.NewAddressRepository(database)
	return NewAddressService(addressRepo, database), database
}

func addressInput(city string, isDefault bool) AddressInput {
	return AddressInput{
		Street:    "1 Main St",
		City:      city,
		State:     "CA",
		ZipCode:   "94000",
		Country:   "USA",
		IsDefault: isDefault,
	}
}

func defaultCount(t *testing.T, database *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	err := database.Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestCreateAddress_FirstIsAlwaysDefault(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	// Explicitly not default, forced anyway because it is the first.
	addresses, err := svc.CreateAddress(user.ID, addressInput("Springfield", false))
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)
}

func TestCreateAddress_SecondStaysNonDefault(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	_, err := svc.CreateAddress(user.ID, addressInput("Springfield", false))
	require.NoError(t, err)
	addresses, err := svc.CreateAddress(user.ID, addressInput("Shelbyville", false))
	require.NoError(t, err)

	require.Len(t, addresses, 2)
	assert.Equal(t, "Springfield", addresses[0].City)
	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)
}

func TestCreateAddress_NewDefaultDisplacesOld(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	_, err := svc.CreateAddress(user.ID, addressInput("Springfield", false))
	require.NoError(t, err)
	addresses, err := svc.CreateAddress(user.ID, addressInput("Shelbyville", true))
	require.NoError(t, err)

	// Default sorts first.
	require.Len(t, addresses, 2)
	assert.Equal(t, "Shelbyville", addresses[0].City)
	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)
	assert.EqualValues(t, 1, defaultCount(t, database, user.ID))
}

func TestUpdateAddress_SetDefaultMovesIt(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	_, err := svc.CreateAddress(user.ID, addressInput("Springfield", false))
	require.NoError(t, err)
	addresses, err := svc.CreateAddress(user.ID, addressInput("Shelbyville", false))
	require.NoError(t, err)
	second := addresses[1]

	isDefault := true
	addresses, err = svc.UpdateAddress(user.ID, second.ID, AddressUpdateInput{IsDefault: &isDefault})
	require.NoError(t, err)

	assert.Equal(t, second.ID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
	assert.EqualValues(t, 1, defaultCount(t, database, user.ID))
}

func TestUpdateAddress_UnsetDefaultIsIgnored(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	addresses, err := svc.CreateAddress(user.ID, addressInput("Springfield", true))
	require.NoError(t, err)
	defaultID := addresses[0].ID

	isDefault := false
	addresses, err = svc.UpdateAddress(user.ID, defaultID, AddressUpdateInput{IsDefault: &isDefault})
	require.NoError(t, err)

	// Still the default: the flag only moves when another address claims it.
	assert.Equal(t, defaultID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
}

func TestUpdateAddress_PartialFields(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	addresses, err := svc.CreateAddress(user.ID, addressInput("Springfield", true))
	require.NoError(t, err)

	city := "Capital City"
	addresses, err = svc.UpdateAddress(user.ID, addresses[0].ID, AddressUpdateInput{City: &city})
	require.NoError(t, err)

	assert.Equal(t, "Capital City", addresses[0].City)
	assert.Equal(t, "1 Main St", addresses[0].Street)
	assert.True(t, addresses[0].IsDefault)
}

func TestUpdateAddress_NotOwned(t *testing.T) {
	svc, database := setupAddressTest(t)
	owner := createTestUser(t, database, "owner")
	intruder := createTestUser(t, database, "intruder")

	addresses, err := svc.CreateAddress(owner.ID, addressInput("Springfield", true))
	require.NoError(t, err)

	city := "Hacked"
	_, err = svc.UpdateAddress(intruder.ID, addresses[0].ID, AddressUpdateInput{City: &city})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDeleteAddress_DefaultPromotesOldest(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	_, err := svc.CreateAddress(user.ID, addressInput("First", false))
	require.NoError(t, err)
	_, err = svc.CreateAddress(user.ID, addressInput("Second", false))
	require.NoError(t, err)
	addresses, err := svc.CreateAddress(user.ID, addressInput("Third", true))
	require.NoError(t, err)
	require.Equal(t, "Third", addresses[0].City)

	addresses, err = svc.DeleteAddress(user.ID, addresses[0].ID)
	require.NoError(t, err)

	// Oldest survivor becomes the default.
	require.Len(t, addresses, 2)
	assert.Equal(t, "First", addresses[0].City)
	assert.True(t, addresses[0].IsDefault)
	assert.EqualValues(t, 1, defaultCount(t, database, user.ID))
}

func TestDeleteAddress_NonDefaultLeavesDefault(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	addresses, err := svc.CreateAddress(user.ID, addressInput("Springfield", true))
	require.NoError(t, err)
	defaultID := addresses[0].ID
	addresses, err = svc.CreateAddress(user.ID, addressInput("Shelbyville", false))
	require.NoError(t, err)

	addresses, err = svc.DeleteAddress(user.ID, addresses[1].ID)
	require.NoError(t, err)

	require.Len(t, addresses, 1)
	assert.Equal(t, defaultID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
}

func TestDeleteAddress_LastOneLeavesEmptyList(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	addresses, err := svc.CreateAddress(user.ID, addressInput("Springfield", true))
	require.NoError(t, err)

	addresses, err = svc.DeleteAddress(user.ID, addresses[0].ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestDeleteAddress_NotOwned(t *testing.T) {
	svc, database := setupAddressTest(t)
	owner := createTestUser(t, database, "owner")
	intruder := createTestUser(t, database, "intruder")

	addresses, err := svc.CreateAddress(owner.ID, addressInput("Springfield", true))
	require.NoError(t, err)

	_, err = svc.DeleteAddress(intruder.ID, addresses[0].ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.EqualValues(t, 1, defaultCount(t, database, owner.ID))
}

func TestUpdateAddress_ConcurrentDefaultClaims(t *testing.T) {
	svc, database := setupAddressTest(t)
	user := createTestUser(t, database, "addruser")

	_, err := svc.CreateAddress(user.ID, addressInput("First", true))
	require.NoError(t, err)
	_, err = svc.CreateAddress(user.ID, addressInput("Second", false))
	require.NoError(t, err)
	addresses, err := svc.CreateAddress(user.ID, addressInput("Third", false))
	require.NoError(t, err)

	isDefault := true
	var wg sync.WaitGroup
	for _, addr := range addresses {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.UpdateAddress(user.ID, id, AddressUpdateInput{IsDefault: &isDefault})
			assert.NoError(t, err)
		}(addr.ID)
	}
	wg.Wait()

	// No matter the interleaving, exactly one default survives.
	assert.EqualValues(t, 1, defaultCount(t, database, user.ID))
}

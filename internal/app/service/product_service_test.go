package service

import (
	"testing"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (ProductService, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	productRepo := repository.NewProductRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	return NewProductService(productRepo, categoryRepo, database), database
}

func TestListProducts_FilterByCategory(t *testing.T) {
	svc, database := setupProductTest(t)

	books := &model.Category{Name: "Books"}
	clothing := &model.Category{Name: "Clothing"}
	require.NoError(t, database.Create(books).Error)
	require.NoError(t, database.Create(clothing).Error)

	for _, p := range []*model.Product{
		{Name: "Novel", Price: 15, CategoryID: &books.ID},
		{Name: "Cookbook", Price: 25, CategoryID: &books.ID},
		{Name: "Hoodie", Price: 45, CategoryID: &clothing.ID},
	} {
		require.NoError(t, database.Create(p).Error)
	}

	result, err := svc.ListProducts(repository.ProductFilter{CategoryID: &books.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)
	assert.Len(t, result.Products, 2)
	for _, p := range result.Products {
		assert.Equal(t, books.ID, *p.CategoryID)
	}
}

func TestListCategoryProducts(t *testing.T) {
	svc, database := setupProductTest(t)

	books := &model.Category{Name: "Books"}
	require.NoError(t, database.Create(books).Error)
	require.NoError(t, database.Create(&model.Product{Name: "Novel", Price: 15, CategoryID: &books.ID}).Error)
	require.NoError(t, database.Create(&model.Product{Name: "Hoodie", Price: 45}).Error)

	result, err := svc.ListCategoryProducts(books.ID, repository.ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Novel", result.Products[0].Name)
}

func TestListCategoryProducts_UnknownCategory(t *testing.T) {
	svc, _ := setupProductTest(t)

	_, err := svc.ListCategoryProducts(9999, repository.ProductFilter{})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestListProducts_SearchAndSort(t *testing.T) {
	svc, database := setupProductTest(t)

	for _, p := range []*model.Product{
		{Name: "Desk Lamp", Price: 19.90},
		{Name: "Floor Lamp", Price: 49.00},
		{Name: "Tote Bag", Price: 12.00},
	} {
		require.NoError(t, database.Create(p).Error)
	}

	result, err := svc.ListProducts(repository.ProductFilter{
		Search:  "Lamp",
		SortBy:  "price",
		SortDir: "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Desk Lamp", result.Products[0].Name)
	assert.Equal(t, "Floor Lamp", result.Products[1].Name)
}

func TestListProducts_Pagination(t *testing.T) {
	svc, database := setupProductTest(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, database.Create(&model.Product{Name: "P", Price: float64(i + 1)}).Error)
	}

	result, err := svc.ListProducts(repository.ProductFilter{
		SortBy:  "price",
		SortDir: "asc",
		Limit:   2,
		Offset:  2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.Total)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 3.0, result.Products[0].Price)
	assert.Equal(t, 2, result.Page)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _ := setupProductTest(t)

	_, err := svc.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _ := setupProductTest(t)

	missing := uint(9999)
	_, err := svc.CreateProduct(ProductInput{Name: "Orphan", Price: 1, CategoryID: &missing})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, database := setupProductTest(t)

	product := &model.Product{Name: "Ephemeral", Price: 5}
	require.NoError(t, database.Create(product).Error)

	require.NoError(t, svc.DeleteProduct(product.ID))
	_, err := svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestExportProducts(t *testing.T) {
	svc, database := setupProductTest(t)

	books := &model.Category{Name: "Books"}
	require.NoError(t, database.Create(books).Error)
	require.NoError(t, database.Create(&model.Product{Name: "Novel", Price: 15, CategoryID: &books.ID}).Error)
	require.NoError(t, database.Create(&model.Product{Name: "Hoodie", Price: 45}).Error)

	buf, err := svc.ExportProducts()
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Novel", rows[1][1])
	assert.Equal(t, "Books", rows[1][4])
	assert.Equal(t, "Hoodie", rows[2][1])
}

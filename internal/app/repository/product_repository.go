package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows and pages product listings.
type ProductFilter struct {
	CategoryID *uint
	Search     string
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindAll() ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDir == "desc" {
		direction = "DESC"
	}

	var products []model.Product
	err := query.Preload("Category").
		Order(column + " " + direction).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products in database", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("id ASC").Find(&products).Error
	if err != nil {
		logger.Error("Failed to find all products in database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

package repository

import (
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find categories in database", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

package service

import (
	"errors"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category already exists")

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(name string) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

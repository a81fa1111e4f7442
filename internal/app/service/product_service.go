package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	CategoryID  *uint
}

type ProductListResult struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) (*ProductListResult, error)
	ListCategoryProducts(categoryID uint, filter repository.ProductFilter) (*ProductListResult, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	ExportProducts() (*bytes.Buffer, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, db *gorm.DB) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) (*ProductListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products: products,
		Total:    total,
		Page:     filter.Offset/filter.Limit + 1,
		PageSize: filter.Limit,
	}, nil
}

// ListCategoryProducts pages through one category's products; an unknown
// category is NotFound rather than an empty page.
func (s *productService) ListCategoryProducts(categoryID uint, filter repository.ProductFilter) (*ProductListResult, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	filter.CategoryID = &categoryID
	return s.ListProducts(filter)
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// ExportProducts writes the full catalog into an xlsx workbook.
func (s *productService) ExportProducts() (*bytes.Buffer, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Products"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Description", "Price", "Category", "Image URL", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		values := []interface{}{
			p.ID,
			p.Name,
			p.Description,
			p.Price,
			categoryName,
			p.ImageURL,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to build product export workbook", err, nil)
		return nil, fmt.Errorf("write export workbook: %w", err)
	}

	logger.Info("Product export generated", map[string]interface{}{
		"count": len(products),
	})
	return buf, nil
}

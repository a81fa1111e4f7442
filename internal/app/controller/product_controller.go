package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	CategoryID  *uint   `json:"category_id"`
}

// parseListQuery reads the shared search/sort/pagination query parameters.
func parseListQuery(c *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search:  c.Query("search"),
		SortBy:  c.DefaultQuery("sort_by", "created_at"),
		SortDir: c.DefaultQuery("sort_dir", "desc"),
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
	return filter
}

// ListProducts handles GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter := parseListQuery(c)

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category_id parameter")
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	result, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		apperrors.InternalError(c, "Failed to load products")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListCategoryProducts handles GET /api/v1/categories/:id/products
func (ctrl *ProductController) ListCategoryProducts(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.productService.ListCategoryProducts(categoryID, parseListQuery(c))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to load products")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to load product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.CreateProduct(service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.FromDBError(c, err, "product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.UpdateProduct(productID, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			apperrors.InternalError(c, "Failed to update product")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportProducts handles GET /api/v1/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	buf, err := ctrl.productService.ExportProducts()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Catalog export failed", err)
		apperrors.InternalError(c, "Failed to export products")
		return
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(
		http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}

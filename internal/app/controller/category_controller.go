package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ListCategories handles GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		apperrors.InternalError(c, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to load category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "Category already exists")
			return
		}
		apperrors.FromDBError(c, err, "category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupCartRouter wires the controller behind a stub auth layer that
// injects the given user, mirroring what AuthMiddleware does in production.
func setupCartRouter(t *testing.T) (*gin.Engine, *gorm.DB, *model.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	user := &model.User{Username: "cartuser", Email: "cartuser@example.com", PasswordHash: "x"}
	require.NoError(t, database.Create(user).Error)

	cartRepo := repository.NewCartRepository(database)
	productRepo := repository.NewProductRepository(database)
	cartService := service.NewCartService(cartRepo, productRepo, database)
	ctrl := NewCartController(cartService)

	r := gin.New()
	authed := r.Group("/api/v1/carts")
	authed.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, user.ID)
	})
	authed.GET("", ctrl.GetCart)
	authed.DELETE("", ctrl.ClearCart)
	authed.POST("/items", ctrl.AddItem)
	authed.PUT("/items/:itemId", ctrl.UpdateItem)
	authed.DELETE("/items/:itemId", ctrl.RemoveItem)

	return r, database, user
}

func seedProduct(t *testing.T, database *gorm.DB, name string, price float64) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Price: price}
	require.NoError(t, database.Create(product).Error)
	return product
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartController_GetCart(t *testing.T) {
	r, _, _ := setupCartRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/carts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.TotalQuantity)
}

func TestCartController_AddItem(t *testing.T) {
	r, database, _ := setupCartRouter(t)
	product := seedProduct(t, database, "Desk Lamp", 19.90)

	w := doJSON(r, http.MethodPost, "/api/v1/carts/items", gin.H{
		"product_id": product.ID,
		"quantity":   3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.InDelta(t, 59.70, resp.Items[0].LineTotal, 0.001)
	assert.Equal(t, 3, resp.TotalQuantity)
	assert.InDelta(t, 59.70, resp.TotalPrice, 0.001)
}

func TestCartController_AddItem_UnknownProduct(t *testing.T) {
	r, _, _ := setupCartRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/carts/items", gin.H{
		"product_id": 9999,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestCartController_AddItem_InvalidBody(t *testing.T) {
	r, _, _ := setupCartRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/carts/items", gin.H{
		"product_id": 1,
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateItem(t *testing.T) {
	r, database, _ := setupCartRouter(t)
	product := seedProduct(t, database, "Desk Lamp", 19.90)

	w := doJSON(r, http.MethodPost, "/api/v1/carts/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/carts/items/%d", resp.Items[0].ID), gin.H{
		"quantity": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestCartController_UpdateItem_BadID(t *testing.T) {
	r, _, _ := setupCartRouter(t)

	w := doJSON(r, http.MethodPut, "/api/v1/carts/items/abc", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
}

func TestCartController_RemoveItem_NotFound(t *testing.T) {
	r, _, _ := setupCartRouter(t)

	w := doJSON(r, http.MethodDelete, "/api/v1/carts/items/555", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CART_ITEM_NOT_FOUND")
}

func TestCartController_ClearCart(t *testing.T) {
	r, database, _ := setupCartRouter(t)
	product := seedProduct(t, database, "Desk Lamp", 19.90)

	w := doJSON(r, http.MethodPost, "/api/v1/carts/items", gin.H{
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/carts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.TotalQuantity)
}

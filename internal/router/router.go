package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/internal/app/controller"
	"github.com/jinwoo-dev/storefront-backend/internal/middleware"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth     *controller.AuthController
	Profile  *controller.ProfileController
	Address  *controller.AddressController
	Cart     *controller.CartController
	Wishlist *controller.WishlistController
	Product  *controller.ProductController
	Category *controller.CategoryController
	Upload   *controller.UploadController
}

func Setup(cfg *config.Config, ctrls Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.Refresh)
	}

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	authed := api.Group("/auth")
	authed.Use(authRequired)
	{
		authed.POST("/logout", ctrls.Auth.Logout)
		authed.GET("/me", ctrls.Auth.Me)
		authed.DELETE("/me", ctrls.Auth.DeleteAccount)
	}

	profile := api.Group("/profile")
	profile.Use(authRequired)
	{
		profile.GET("", ctrls.Profile.GetProfile)
		profile.PUT("", ctrls.Profile.UpdateProfile)
		profile.PUT("/password", ctrls.Profile.ChangePassword)
	}

	addresses := api.Group("/addresses")
	addresses.Use(authRequired)
	{
		addresses.GET("", ctrls.Address.ListAddresses)
		addresses.POST("", ctrls.Address.CreateAddress)
		addresses.PUT("/:id", ctrls.Address.UpdateAddress)
		addresses.DELETE("/:id", ctrls.Address.DeleteAddress)
	}

	carts := api.Group("/carts")
	carts.Use(authRequired)
	{
		carts.GET("", ctrls.Cart.GetCart)
		carts.DELETE("", ctrls.Cart.ClearCart)
		carts.POST("/items", ctrls.Cart.AddItem)
		carts.PUT("/items/:itemId", ctrls.Cart.UpdateItem)
		carts.DELETE("/items/:itemId", ctrls.Cart.RemoveItem)
	}

	wishlist := api.Group("/wishlist")
	wishlist.Use(authRequired)
	{
		wishlist.GET("", ctrls.Wishlist.GetWishlist)
		wishlist.POST("", ctrls.Wishlist.AddProduct)
		wishlist.DELETE("", ctrls.Wishlist.ClearWishlist)
		wishlist.DELETE("/:productId", ctrls.Wishlist.RemoveProduct)
	}

	products := api.Group("/products")
	{
		products.GET("", ctrls.Product.ListProducts)
		products.GET("/export", ctrls.Product.ExportProducts)
		products.GET("/:id", ctrls.Product.GetProduct)
		products.POST("", authRequired, ctrls.Product.CreateProduct)
		products.PUT("/:id", authRequired, ctrls.Product.UpdateProduct)
		products.DELETE("/:id", authRequired, ctrls.Product.DeleteProduct)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", ctrls.Category.ListCategories)
		categories.GET("/:id", ctrls.Category.GetCategory)
		categories.GET("/:id/products", ctrls.Product.ListCategoryProducts)
		categories.POST("", authRequired, ctrls.Category.CreateCategory)
	}

	upload := api.Group("/upload")
	upload.Use(authRequired)
	{
		upload.POST("/presigned-url", ctrls.Upload.PresignUpload)
	}

	return r
}

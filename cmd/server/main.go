package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/internal/app/controller"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/app/service"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/jinwoo-dev/storefront-backend/internal/router"
	"github.com/jinwoo-dev/storefront-backend/internal/storage"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"github.com/jinwoo-dev/storefront-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       "debug",
		Format:      logFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}
		defer redis.Close()
	} else {
		logger.Warn("Redis disabled, logout token revocation is off")
	}

	var s3Storage *storage.S3Storage
	if cfg.S3.AccessKeyID != "" {
		s3Storage, err = storage.NewS3Storage(&cfg.S3)
		if err != nil {
			logger.Fatal("Failed to configure S3 storage", err)
		}
	} else {
		logger.Warn("S3 credentials missing, file uploads are off")
	}

	database := db.GetDB()

	userRepo := repository.NewUserRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	addressRepo := repository.NewAddressRepository(database)
	cartRepo := repository.NewCartRepository(database)
	wishlistRepo := repository.NewWishlistRepository(database)
	productRepo := repository.NewProductRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)

	authService := service.NewAuthService(userRepo, database, &cfg.JWT)
	profileService := service.NewProfileService(userRepo, profileRepo, database)
	addressService := service.NewAddressService(addressRepo, database)
	cartService := service.NewCartService(cartRepo, productRepo, database)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, database)
	productService := service.NewProductService(productRepo, categoryRepo, database)
	categoryService := service.NewCategoryService(categoryRepo)

	engine := router.Setup(cfg, router.Controllers{
		Auth:     controller.NewAuthController(authService),
		Profile:  controller.NewProfileController(profileService),
		Address:  controller.NewAddressController(addressService),
		Cart:     controller.NewCartController(cartService),
		Wishlist: controller.NewWishlistController(wishlistService),
		Product:  controller.NewProductController(productService),
		Category: controller.NewCategoryController(categoryService),
		Upload:   controller.NewUploadController(s3Storage),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", err)
	}
	logger.Info("Server stopped")
}

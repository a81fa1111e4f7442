package main

import (
	"errors"

	"github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/internal/app/model"
	"github.com/jinwoo-dev/storefront-backend/internal/app/repository"
	"github.com/jinwoo-dev/storefront-backend/internal/db"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Seeds the catalog with a starter set of categories and products.
// Safe to rerun: existing categories are reused and products are only
// inserted when the table is empty.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	database := db.GetDB()
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)

	categories := map[string]*model.Category{}
	for _, name := range []string{"Electronics", "Books", "Clothing", "Home & Kitchen"} {
		category, err := categoryRepo.FindByName(name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category = &model.Category{Name: name}
			if err := categoryRepo.Create(category); err != nil {
				logger.Fatal("Failed to seed category", err, map[string]interface{}{"name": name})
			}
		} else if err != nil {
			logger.Fatal("Failed to look up category", err, map[string]interface{}{"name": name})
		}
		categories[name] = category
	}

	existing, err := productRepo.FindAll()
	if err != nil {
		logger.Fatal("Failed to check existing products", err)
	}
	if len(existing) > 0 {
		logger.Info("Products already seeded, skipping", map[string]interface{}{
			"count": len(existing),
		})
		return
	}

	products := []model.Product{
		{Name: "Wireless Earbuds", Description: "Bluetooth 5.3 earbuds with charging case", Price: 59.99, CategoryID: &categories["Electronics"].ID},
		{Name: "Mechanical Keyboard", Description: "87-key hot-swappable mechanical keyboard", Price: 89.00, CategoryID: &categories["Electronics"].ID},
		{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI and card reader", Price: 34.50, CategoryID: &categories["Electronics"].ID},
		{Name: "The Pragmatic Programmer", Description: "20th anniversary edition", Price: 42.00, CategoryID: &categories["Books"].ID},
		{Name: "Designing Data-Intensive Applications", Description: "Martin Kleppmann", Price: 49.99, CategoryID: &categories["Books"].ID},
		{Name: "Cotton Hoodie", Description: "Heavyweight fleece hoodie, unisex", Price: 45.00, CategoryID: &categories["Clothing"].ID},
		{Name: "Canvas Tote Bag", Description: "Reusable 15L tote", Price: 12.00, CategoryID: &categories["Clothing"].ID},
		{Name: "Pour-Over Coffee Kit", Description: "Dripper, server and filters", Price: 28.75, CategoryID: &categories["Home & Kitchen"].ID},
		{Name: "Cast Iron Skillet", Description: "Pre-seasoned 10 inch skillet", Price: 24.99, CategoryID: &categories["Home & Kitchen"].ID},
		{Name: "Desk Lamp", Description: "Dimmable LED lamp with USB port", Price: 19.90, CategoryID: &categories["Home & Kitchen"].ID},
	}

	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			logger.Fatal("Failed to seed product", err, map[string]interface{}{
				"name": products[i].Name,
			})
		}
	}

	logger.Info("Seed complete", map[string]interface{}{
		"categories": len(categories),
		"products":   len(products),
	})
}

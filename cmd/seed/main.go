package main

import (
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

func money(amount string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(amount))
}

func moneyPtr(amount string) *models.Money {
	m := money(amount)
	return &m
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	products := []models.Product{
		{
			Name:               "Cold Pressed Coconut Oil",
			Description:        "Virgin coconut oil from sun dried copra",
			ProductDescription: "Extracted without heat to keep the natural aroma. Suitable for cooking and hair care.",
			ProductDetails:     "Shelf life: 12 months",
			Category:           "Oils",
			Images:             models.StringArray{"https://images.unsplash.com/photo-1526947425960-945c6e72858f?w=800"},
			IsActive:           true,
			Sizes: []models.ProductSize{
				{Size: "500ml", Price: money("350.00"), InStock: true, Weight: "0.5"},
				{Size: "1L", Price: money("650.00"), InStock: true, Weight: "1"},
				{Size: "5L", Price: money("2999.00"), InStock: false, Weight: "5"},
			},
		},
		{
			Name:               "Groundnut Oil",
			Description:        "Wood pressed groundnut oil",
			ProductDescription: "Traditional wooden churn extraction.",
			Category:           "Oils",
			IsActive:           true,
			Sizes: []models.ProductSize{
				{Size: "1L", Price: money("420.00"), InStock: true, Weight: "1"},
				{Size: "2L", Price: money("820.00"), InStock: true, Weight: "2"},
			},
		},
		{
			Name:        "Palm Jaggery",
			Description: "Unrefined palm sugar",
			Category:    "Sweeteners",
			Price:       moneyPtr("240.00"),
			IsActive:    true,
		},
		{
			Name:        "Forest Honey",
			Description: "Raw multi-flora honey",
			Category:    "Sweeteners",
			Price:       moneyPtr("499.00"),
			IsActive:    true,
			IsCertified: true,
		},
	}

	repo := repository.NewProductRepository(models.DB)
	for i := range products {
		product := products[i]
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Name)
			continue
		}
		if err := repo.Create(&product); err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s (id=%d)", product.Name, product.ID)
	}

	stdLog.Println("Seed completed")
}

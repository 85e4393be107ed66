package catalog

import (
	"context"

	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var demoProducts = []Product{
	{Title: "Linen Shirt", Category: "shirts", PriceCents: 4500, Sizes: "S,M,L,XL", Colors: "white,sand", Description: "Relaxed fit linen shirt."},
	{Title: "Selvedge Denim", Category: "pants", PriceCents: 9800, Sizes: "30,32,34,36", Colors: "indigo", Description: "14oz raw selvedge denim."},
	{Title: "Merino Crewneck", Category: "knitwear", PriceCents: 7200, Sizes: "S,M,L", Colors: "navy,charcoal", Description: "Extra-fine merino wool."},
	{Title: "Wool Scarf", Category: "accessories", PriceCents: 3500, Colors: "camel,grey", Description: "Brushed lambswool scarf."},
	{Title: "Canvas Tote", Category: "accessories", PriceCents: 2800, Colors: "natural", Description: "Heavyweight cotton canvas."},
}

// SeedDemo loads the demo catalog once; a non-empty table is left alone.
func SeedDemo(ctx context.Context, tx txRunner) error {
	return tx.WithTx(ctx, func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i := range demoProducts {
			product := demoProducts[i]
			product.Active = true
			if err := db.Create(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Migrate creates or updates the catalog schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{})
}

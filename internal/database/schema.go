package database

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the drinks table if it does not exist yet
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.Drink{}); err != nil {
		return fmt.Errorf("migrating drinks table: %w", err)
	}
	return nil
}

// SeedDrink is the single drink inserted after a schema reset
var SeedDrink = models.Drink{
	Title:  "water",
	Recipe: models.Recipe{{Name: "water", Color: "blue", Parts: 1}},
}

// ResetSchema drops all records and recreates the drinks table with the seed drink.
func ResetSchema(ctx context.Context, db *gorm.DB) error {
	log.Warn("Dropping and recreating the drinks table")
	tx := db.WithContext(ctx)
	if err := tx.Migrator().DropTable(&models.Drink{}); err != nil {
		return fmt.Errorf("dropping drinks table: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		return err
	}
	seed := SeedDrink
	if err := tx.Create(&seed).Error; err != nil {
		return fmt.Errorf("seeding drinks table: %w", err)
	}
	log.WithField("drink_id", seed.ID).Info("Database seeded successfully")
	return nil
}

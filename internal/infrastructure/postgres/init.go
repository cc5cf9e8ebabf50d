package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/shvark-country-service/internal/config"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.CountryConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.CountryDB.Dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if cfg.CountryDB.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to auto-migrate db: %v\n", err)
		}
	}

	return db
}

// AutoMigrate creates the schema from the gorm models. Used by local setups
// and tests; deployments run the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.CountryModel{}, &logger.RefreshRunEvent{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

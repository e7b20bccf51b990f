package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-assessor/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dialector = postgres.Open(cfg.GetDatabaseDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("✅ Database connected successfully (%s)", cfg.Database.Driver)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ Database migration completed")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.UserProfile{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

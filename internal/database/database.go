package database

import (
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"accounthub/internal/config"
)

func Connect(c *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Debug("GORM connected to database")

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS account").Error; err != nil {
		return nil, err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Account{}, &Group{}, &Permission{}, &AuthKey{}); err != nil {
		return nil, err
	}

	return db, err
}

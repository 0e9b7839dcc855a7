package db

import (
	"time"

	"points-exchange/models"
	"points-exchange/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func Connect(url string, log *utils.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  url,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Error),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("✅ Database connection established")
	return db, nil
}

func Migrate(db *gorm.DB, log *utils.Logger) error {
	log.Info("📦 Migrating database...")
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Channel{},
		&models.Follow{},
		&models.Transaction{},
	); err != nil {
		log.Errorf("✖ Failed to migrate database: %v", err)
		return err
	}
	return nil
}

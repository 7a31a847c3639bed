package models

import (
	"inventro-backend/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB инициализирует подключение к базе данных
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	if cfg.URL != "" {
		// Используем PostgreSQL для продакшена
		return gorm.Open(postgres.Open(cfg.URL), gormConfig)
	}

	// Используем SQLite для разработки
	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	if err != nil {
		return nil, err
	}

	// SQLite не допускает параллельных писателей
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// AllModels возвращает все сущности, которыми управляет сервис
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&ItemCategory{},
		&Item{},
		&InventoryItem{},
		&Cart{},
		&CartItem{},
	}
}

// Migrate создает или обновляет схему
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

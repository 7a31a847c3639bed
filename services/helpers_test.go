package services

import (
	"context"
	"testing"

	"inventro-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Каждое новое соединение к :memory: открывает пустую базу
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "hash", Role: role, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

type itemOption func(*ItemInput)

func withCategory(name string) itemOption {
	return func(in *ItemInput) { in.Category = name }
}

func withCost(cost string) itemOption {
	return func(in *ItemInput) { in.Cost = decimal.RequireFromString(cost) }
}

func withTotal(total int) itemOption {
	return func(in *ItemInput) { in.TotalAmount = total }
}

func createTestItem(t *testing.T, db *gorm.DB, sku string, inStock int, opts ...itemOption) models.Item {
	t.Helper()

	input := &ItemInput{
		Name:         "Item " + sku,
		SKU:          sku,
		Category:     "General",
		InStock:      inStock,
		TotalAmount:  inStock,
		Cost:         decimal.NewFromInt(1),
		ReorderLevel: models.DefaultReorderLevel,
		Location:     "Shelf A",
	}
	for _, opt := range opts {
		opt(input)
	}

	item, err := NewItemService(db, zap.NewNop(), nil).Create(context.Background(), input, 0)
	require.NoError(t, err)
	return *item
}

func reloadItem(t *testing.T, db *gorm.DB, id uint) models.Item {
	t.Helper()

	var item models.Item
	require.NoError(t, db.First(&item, id).Error)
	return item
}

func stockRecord(t *testing.T, db *gorm.DB, itemID uint) models.InventoryItem {
	t.Helper()

	var row models.InventoryItem
	require.NoError(t, db.Where("item_id = ? AND borrower_id IS NULL", itemID).First(&row).Error)
	return row
}

// abortOn ставит триггер, который прерывает запись в таблицу
func abortOn(t *testing.T, db *gorm.DB, name, event, table string) {
	t.Helper()

	sql := "CREATE TRIGGER " + name + " BEFORE " + event + " ON " + table +
		" BEGIN SELECT RAISE(ABORT, 'write rejected'); END"
	require.NoError(t, db.Exec(sql).Error)
}

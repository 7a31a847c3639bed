package services

import (
	"context"
	"testing"
	"time"

	"inventro-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMetricsEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMetricsService(db, zap.NewNop(), 10)

	m := svc.Compute(context.Background())

	assert.Zero(t, m.TotalItems)
	assert.Zero(t, m.LowStock)
	assert.Zero(t, m.OutOfStock)
	assert.Zero(t, m.NewItems7d)
	assert.Zero(t, m.Categories)
	assert.True(t, m.InventoryValue.IsZero())
	assert.Equal(t, 10, m.LowStockThreshold)
}

func TestMetricsBeforeMigration(t *testing.T) {
	// Таблиц еще нет
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	m := NewMetricsService(db, zap.NewNop(), 0).Compute(context.Background())

	assert.Zero(t, m.TotalItems)
	assert.True(t, m.InventoryValue.IsZero())
	assert.Equal(t, DefaultLowStockThreshold, m.LowStockThreshold)
}

func TestMetricsRollup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestItem(t, db, "OUT", 0, withCost("5"))
	createTestItem(t, db, "LOW", 5, withCost("2.50"), withCategory("Paint"))
	createTestItem(t, db, "EDGE", 10, withCost("1"))
	old := createTestItem(t, db, "PLENTY", 11, withCost("0.10"), withCategory("Paint"))
	gone := createTestItem(t, db, "GONE", 0, withCategory("Archive"), withCost("100"))
	require.NoError(t, NewItemService(db, zap.NewNop(), nil).Delete(ctx, gone.ID, false, 0))

	require.NoError(t, db.Model(&models.Item{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -30)).Error)

	m := NewMetricsService(db, zap.NewNop(), 10).Compute(ctx)

	assert.Equal(t, int64(4), m.TotalItems)
	assert.Equal(t, int64(2), m.LowStock)
	assert.Equal(t, int64(1), m.OutOfStock)
	assert.Equal(t, int64(3), m.NewItems7d)
	assert.Equal(t, int64(2), m.Categories)
	// 5*2.50 + 10*1 + 11*0.10
	assert.True(t, decimal.RequireFromString("23.60").Equal(m.InventoryValue), m.InventoryValue.String())
}

func TestMetricsThresholdIsConfigurable(t *testing.T) {
	db := setupTestDB(t)
	createTestItem(t, db, "A", 15)
	createTestItem(t, db, "B", 30)

	m := NewMetricsService(db, zap.NewNop(), 20).Compute(context.Background())

	assert.Equal(t, int64(1), m.LowStock)
	assert.Equal(t, 20, m.LowStockThreshold)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.False(t, cfg.Inventory.LenientNumbers)
	assert.Equal(t, "inventro-items", cfg.Search.Index)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "25")
	t.Setenv("LENIENT_NUMERIC_INPUT", "true")
	t.Setenv("SEARCH_ENABLED", "1")
	t.Setenv("SEARCH_ADDRESSES", "http://es1:9200, http://es2:9200")
	t.Setenv("APP_ENV", "production")

	cfg := LoadEnv()

	assert.Equal(t, 25, cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.Inventory.LenientNumbers)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Search.Addresses)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "many")

	cfg := LoadEnv()

	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
}

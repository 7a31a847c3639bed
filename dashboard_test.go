package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, testConfig())
	_, staff := createTestUsers(db)
	token := generateTestJWT(staff)

	resp, body := doRequest(app, "GET", "/api/metrics", nil, token)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), body["total_items"])
	assert.Equal(t, "0", body["inventory_value"])

	createTestItem(db, "M-1", 0)
	createTestItem(db, "M-2", 4)

	resp, body = doRequest(app, "GET", "/api/metrics", nil, token)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_items"])
	assert.Equal(t, float64(1), body["out_of_stock"])
	assert.Equal(t, float64(1), body["low_stock"])
	assert.Equal(t, "12", body["inventory_value"])
	assert.Equal(t, float64(10), body["low_stock_threshold"])
}

func TestSearchWithoutCluster(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, testConfig())
	_, staff := createTestUsers(db)

	resp, body := doRequest(app, "GET", "/api/search?q=drill", nil, generateTestJWT(staff))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, body["results"])
}

func TestSearchClusterDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	db := setupTestDB()
	cfg := testConfig()
	cfg.Search.Enabled = true
	cfg.Search.Addresses = []string{address}
	app := setupTestApp(db, cfg)
	_, staff := createTestUsers(db)

	resp, body := doRequest(app, "GET", "/api/search?q=drill", nil, generateTestJWT(staff))
	assert.Equal(t, 200, resp.StatusCode)
	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, results)

	// Запись в каталог не зависит от поиска
	admin := createTestUser(db, "indexer-admin", "admin")
	req := map[string]interface{}{"name": "Drill", "sku": "DR-1", "category": "Tools", "in_stock": 1}
	resp, _ = doRequest(app, "POST", "/api/items", req, generateTestJWT(admin))
	assert.Equal(t, 201, resp.StatusCode)
}

func TestHealthAndPrometheus(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db, testConfig())

	resp, body := doRequest(app, "GET", "/health", nil, "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["search"])

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "inventro_http_requests_total")
}

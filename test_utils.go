package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"inventro-backend/config"
	"inventro-backend/models"
	"inventro-backend/services"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	models.Migrate(db)
	return db
}

// testConfig возвращает конфигурацию для тестов
func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{AppEnv: "test", Port: "0", CORSOrigins: "*"},
		Inventory: config.InventoryConfig{LowStockThreshold: 10},
		Search:    config.SearchConfig{Enabled: false, Index: "inventro-test"},
	}
}

// setupTestApp собирает приложение поверх тестовой базы
func setupTestApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app, err := newApp(db, cfg, zap.NewNop())
	if err != nil {
		panic(err)
	}
	return app
}

// createTestUser создает пользователя с паролем testPassword
func createTestUser(db *gorm.DB, username string, role models.Role) models.User {
	hash, _ := utils.HashPassword(testPassword)
	user := models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	db.Create(&user)
	return user
}

// createTestUsers создает администратора и сотрудника и возвращает их
func createTestUsers(db *gorm.DB) (models.User, models.User) {
	return createTestUser(db, "admin", models.RoleAdmin), createTestUser(db, "staff", models.RoleStaff)
}

// createTestItem создает активный товар с записью остатка
func createTestItem(db *gorm.DB, sku string, inStock int) models.Item {
	input := &services.ItemInput{
		Name:         "Item " + sku,
		SKU:          sku,
		Category:     "Tools",
		InStock:      inStock,
		TotalAmount:  inStock,
		Cost:         decimal.NewFromInt(3),
		ReorderLevel: models.DefaultReorderLevel,
	}
	item, err := services.NewItemService(db, zap.NewNop(), nil).Create(context.Background(), input, 0)
	if err != nil {
		panic(err)
	}
	return *item
}

// generateTestJWT создает тестовый JWT токен для пользователя
func generateTestJWT(user models.User) string {
	token, _ := utils.GenerateJWT(user.ID, user.Username, string(user.Role))
	return token
}

// doRequest выполняет JSON запрос к приложению и разбирает ответ
func doRequest(app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}

	var result map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &result)
	}
	return resp, result
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventro-backend/config"
	"inventro-backend/controllers"
	"inventro-backend/models"
	"inventro-backend/routes"
	"inventro-backend/services"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadEnv()

	// Инициализация логгера
	appLogger, err := utils.NewLogger(cfg.Logger.Level, cfg.Logger.Encoding, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer appLogger.Sync()

	// Инициализация базы данных
	db, err := models.InitDB(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Автомиграция
	if err := models.Migrate(db); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Начальные данные
	initDefaultAdmin(db, cfg.Admin, appLogger)
	initDefaultCategories(db, appLogger)

	app, err := newApp(db, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build application", zap.Error(err))
	}

	// Запуск сервера
	go func() {
		appLogger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			appLogger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

// newApp собирает сервисы, контроллеры и маршруты
func newApp(db *gorm.DB, cfg *config.Config, appLogger *zap.Logger) (*fiber.App, error) {
	searchService, err := services.NewSearchService(cfg.Search, appLogger)
	if err != nil {
		return nil, err
	}
	cartService := services.NewCartService(db, appLogger)
	inventoryService := services.NewInventoryService(db, appLogger)
	itemService := services.NewItemService(db, appLogger, searchService)
	metricsService := services.NewMetricsService(db, appLogger, cfg.Inventory.LowStockThreshold)

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error",
					zap.String("path", c.Path()),
					zap.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
					zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(utils.PrometheusMiddleware)

	// CORS настройки
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Инициализация контроллеров
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	itemController := controllers.NewItemController(itemService, cfg.Inventory.LenientNumbers)
	cartController := controllers.NewCartController(cartService)
	inventoryController := controllers.NewInventoryController(inventoryService)
	dashboardController := controllers.NewDashboardController(metricsService, searchService, appLogger)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupUserRoutes(app, userController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupCartRoutes(app, cartController)
	routes.SetupInventoryRoutes(app, inventoryController)
	routes.SetupDashboardRoutes(app, dashboardController)

	// Метрики Prometheus
	app.Get("/metrics", utils.MetricsHandler())

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Inventro Backend is running",
			"search":    searchService.Enabled(),
			"timestamp": time.Now().Unix(),
		})
	})

	return app, nil
}

// initDefaultAdmin создает администратора, если он задан в окружении и еще не существует
func initDefaultAdmin(db *gorm.DB, admin config.AdminConfig, appLogger *zap.Logger) {
	if admin.Password == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("username = ?", admin.Username).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		appLogger.Error("Failed to hash admin password", zap.Error(err))
		return
	}

	user := models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		appLogger.Error("Failed to create default admin", zap.Error(err))
		return
	}
	appLogger.Info("Default admin created", zap.String("username", user.Username))
}

// initDefaultCategories создает базовые категории товаров
func initDefaultCategories(db *gorm.DB, appLogger *zap.Logger) {
	defaultCategories := []string{
		"Tools",
		"Electronics",
		"Office Supplies",
		"Safety Equipment",
		"Cleaning Supplies",
		"Furniture",
	}

	for _, name := range defaultCategories {
		var category models.ItemCategory
		result := db.Where("name_key = ?", models.CategoryKey(name)).
			Attrs(models.ItemCategory{Name: name}).
			FirstOrCreate(&category)
		if result.Error != nil {
			appLogger.Error("Failed to create category", zap.String("name", name), zap.Error(result.Error))
		}
	}
}

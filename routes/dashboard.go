package routes

import (
	"inventro-backend/controllers"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes настраивает маршруты дашборда
func SetupDashboardRoutes(app *fiber.App, dashboardController *controllers.DashboardController) {
	api := app.Group("/api", utils.AuthMiddleware)

	// GET /api/metrics - сводные показатели
	api.Get("/metrics", dashboardController.GetMetrics)

	// GET /api/search?q= - полнотекстовый поиск
	api.Get("/search", dashboardController.Search)
}

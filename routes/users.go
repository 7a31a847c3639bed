package routes

import (
	"inventro-backend/controllers"
	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes настраивает маршруты для пользователей
func SetupUserRoutes(app *fiber.App, userController *controllers.UserController) {
	users := app.Group("/api/users", utils.AuthMiddleware)

	// GET /api/users/me - текущий пользователь
	users.Get("/me", userController.GetProfile)

	// POST /api/users - создание пользователя (только администратор)
	users.Post("/", utils.RequireRoles(string(models.RoleAdmin)), userController.CreateUser)
}

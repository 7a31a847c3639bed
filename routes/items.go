package routes

import (
	"inventro-backend/controllers"
	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes настраивает маршруты каталога
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	staffOnly := utils.RequireRoles(string(models.RoleAdmin), string(models.RoleManager))

	items := app.Group("/api/items", utils.AuthMiddleware)

	// GET /api/items - список товаров
	items.Get("/", itemController.ListItems)

	// GET /api/items/:id - товар по ID
	items.Get("/:id", itemController.GetItem)

	// POST /api/items - создание товара
	items.Post("/", staffOnly, itemController.CreateItem)

	// PUT /api/items/:id - изменение товара
	items.Put("/:id", staffOnly, itemController.UpdateItem)

	// DELETE /api/items/:id - снятие с учета, ?force=true при ненулевом остатке
	items.Delete("/:id", staffOnly, itemController.DeleteItem)

	categories := app.Group("/api/categories", utils.AuthMiddleware)

	// GET /api/categories - список категорий
	categories.Get("/", itemController.ListCategories)

	// POST /api/categories - создание категории
	categories.Post("/", staffOnly, itemController.CreateCategory)
}

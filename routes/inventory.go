package routes

import (
	"inventro-backend/controllers"
	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupInventoryRoutes настраивает маршруты выдачи и возврата
func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController) {
	inventory := app.Group("/inventory", utils.AuthMiddleware)

	// GET /inventory/mine - товары на руках у пользователя
	inventory.Get("/mine", inventoryController.ListMine)

	// GET /inventory/ledger - журнал учета (администратор, менеджер)
	inventory.Get("/ledger",
		utils.RequireRoles(string(models.RoleAdmin), string(models.RoleManager)),
		inventoryController.ListLedger)

	// POST /inventory/:item_id/borrow - взять единицу товара
	inventory.Post("/:item_id/borrow", inventoryController.Borrow)

	// POST /inventory/:item_id/return - вернуть единицу товара
	inventory.Post("/:item_id/return", inventoryController.Return)
}

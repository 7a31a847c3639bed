package routes

import (
	"inventro-backend/controllers"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupCartRoutes настраивает маршруты корзины
func SetupCartRoutes(app *fiber.App, cartController *controllers.CartController) {
	cart := app.Group("/cart", utils.AuthMiddleware)

	// GET /cart - корзина текущего пользователя
	cart.Get("/", cartController.GetMyCart)

	// GET /cart/:id - корзина по ID
	cart.Get("/:id", cartController.GetCart)

	// POST /cart/:id/add - добавить товар
	cart.Post("/:id/add", cartController.AddItem)

	// POST /cart/:id/update - изменить количество
	cart.Post("/:id/update", cartController.UpdateItem)

	// POST /cart/:id/remove - удалить товар
	cart.Post("/:id/remove", cartController.RemoveItem)

	// POST /cart/:id/clear - очистить корзину
	cart.Post("/:id/clear", cartController.Clear)
}

package controllers

import (
	"inventro-backend/services"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// InventoryController контроллер выдачи и возврата товаров
type InventoryController struct {
	service *services.InventoryService
}

// NewInventoryController создает новый экземпляр InventoryController
func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{service: service}
}

// Borrow выдает текущему пользователю одну единицу товара
func (ic *InventoryController) Borrow(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, ok := paramID(c, "item_id")
	if !ok {
		return badRequest(c, "Неверный ID товара")
	}

	ledger, err := ic.service.Borrow(c.UserContext(), userID, itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"item_id":  ledger.ItemID,
		"quantity": ledger.Quantity,
	})
}

// Return возвращает на склад одну единицу товара
func (ic *InventoryController) Return(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, ok := paramID(c, "item_id")
	if !ok {
		return badRequest(c, "Неверный ID товара")
	}

	if err := ic.service.Return(c.UserContext(), userID, itemID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMine возвращает товары на руках у текущего пользователя
func (ic *InventoryController) ListMine(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	rows, err := ic.service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   rows,
	})
}

// ListLedger возвращает журнал складского учета
func (ic *InventoryController) ListLedger(c *fiber.Ctx) error {
	itemID, ok := queryID(c, "item_id")
	if !ok {
		return badRequest(c, "Неверный item_id")
	}
	borrowerID, ok := queryID(c, "borrower_id")
	if !ok {
		return badRequest(c, "Неверный borrower_id")
	}

	limit, offset := pagination(c)
	filter := services.LedgerFilter{
		ItemID:     itemID,
		BorrowerID: borrowerID,
		Limit:      limit,
		Offset:     offset,
	}

	rows, err := ic.service.ListLedger(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"entries": rows,
	})
}

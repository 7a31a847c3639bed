package controllers

import (
	"inventro-backend/services"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CartController контроллер корзины
type CartController struct {
	service *services.CartService
}

// NewCartController создает новый экземпляр CartController
func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

// CartItemRequest запрос на изменение строки корзины.
// Количество принимается числом или строкой, по умолчанию 1.
type CartItemRequest struct {
	ItemID   uint               `json:"item_id" form:"item_id" validate:"required"`
	Quantity services.FormValue `json:"quantity" form:"quantity"`
}

// GetMyCart возвращает корзину текущего пользователя
func (cc *CartController) GetMyCart(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	view, err := cc.service.ViewForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetCart возвращает корзину по ID
func (cc *CartController) GetCart(c *fiber.Ctx) error {
	cartID, err := cc.ownedCart(c)
	if err != nil {
		return err
	}
	if cartID == 0 {
		return nil
	}

	view, err := cc.service.View(c.UserContext(), cartID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// AddItem добавляет товар в корзину
func (cc *CartController) AddItem(c *fiber.Ctx) error {
	return cc.mutateLine(c, func(cartID, itemID uint, quantity int) error {
		return cc.service.Add(c.UserContext(), cartID, itemID, quantity)
	})
}

// UpdateItem задает количество товара в корзине
func (cc *CartController) UpdateItem(c *fiber.Ctx) error {
	return cc.mutateLine(c, func(cartID, itemID uint, quantity int) error {
		return cc.service.SetQuantity(c.UserContext(), cartID, itemID, quantity)
	})
}

// RemoveItem удаляет товар из корзины
func (cc *CartController) RemoveItem(c *fiber.Ctx) error {
	return cc.mutateLine(c, func(cartID, itemID uint, _ int) error {
		return cc.service.Remove(c.UserContext(), cartID, itemID)
	})
}

// Clear очищает корзину
func (cc *CartController) Clear(c *fiber.Ctx) error {
	cartID, err := cc.ownedCart(c)
	if err != nil {
		return err
	}
	if cartID == 0 {
		return nil
	}

	if err := cc.service.Clear(c.UserContext(), cartID); err != nil {
		return respondError(c, err)
	}
	return cc.render(c, cartID)
}

func (cc *CartController) mutateLine(c *fiber.Ctx, apply func(cartID, itemID uint, quantity int) error) error {
	cartID, err := cc.ownedCart(c)
	if err != nil {
		return err
	}
	if cartID == 0 {
		return nil
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Неверный формат данных")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка валидации",
			"errors":  utils.FormatValidationError(err),
		})
	}

	quantity, err := req.Quantity.IntOr("quantity", 1)
	if err != nil {
		return respondError(c, err)
	}

	if err := apply(cartID, req.ItemID, quantity); err != nil {
		return respondError(c, err)
	}
	return cc.render(c, cartID)
}

func (cc *CartController) render(c *fiber.Ctx, cartID uint) error {
	view, err := cc.service.View(c.UserContext(), cartID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ownedCart возвращает ID корзины текущего пользователя из маршрута.
// Если ответ уже отправлен, возвращается 0.
func (cc *CartController) ownedCart(c *fiber.Ctx) (uint, error) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return 0, unauthorized(c)
	}

	cartID, ok := paramID(c, "id")
	if !ok {
		return 0, badRequest(c, "Неверный ID корзины")
	}

	if err := cc.service.OwnedBy(c.UserContext(), cartID, userID); err != nil {
		return 0, respondError(c, err)
	}
	return cartID, nil
}

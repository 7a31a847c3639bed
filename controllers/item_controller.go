package controllers

import (
	"strings"

	"inventro-backend/services"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// ItemController контроллер каталога товаров
type ItemController struct {
	service *services.ItemService
	lenient bool
}

// NewItemController создает новый экземпляр ItemController.
// lenient включает мягкий разбор числовых полей формы.
func NewItemController(service *services.ItemService, lenient bool) *ItemController {
	return &ItemController{service: service, lenient: lenient}
}

// CategoryRequest запрос на создание категории
type CategoryRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

// ListItems возвращает список товаров с фильтрами q, status, category
func (ic *ItemController) ListItems(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := services.ItemFilter{
		Query:    c.Query("q"),
		Stock:    strings.ToLower(c.Query("status")),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	items, total, err := ic.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"items":    items,
		"total":    total,
		"page":     offset/limit + 1,
		"per_page": limit,
	})
}

// GetItem возвращает товар по ID
func (ic *ItemController) GetItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Неверный ID товара")
	}

	item, err := ic.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// CreateItem создает товар
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	userID, _ := utils.CurrentUserID(c)

	input, err := ic.parseForm(c)
	if err != nil {
		return respondError(c, err)
	}

	item, err := ic.service.Create(c.UserContext(), input, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem изменяет товар
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	userID, _ := utils.CurrentUserID(c)

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Неверный ID товара")
	}

	input, err := ic.parseForm(c)
	if err != nil {
		return respondError(c, err)
	}

	item, err := ic.service.Update(c.UserContext(), id, input, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// DeleteItem снимает товар с учета. ?force=true разрешает снятие при ненулевом остатке.
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	userID, _ := utils.CurrentUserID(c)

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Неверный ID товара")
	}

	if err := ic.service.Delete(c.UserContext(), id, isForce(c.Query("force")), userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories возвращает все категории
func (ic *ItemController) ListCategories(c *fiber.Ctx) error {
	categories, err := ic.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// CreateCategory находит или создает категорию
func (ic *ItemController) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
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

	category, err := ic.service.GetOrCreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (ic *ItemController) parseForm(c *fiber.Ctx) (*services.ItemInput, error) {
	var form services.ItemForm
	if err := c.BodyParser(&form); err != nil {
		return nil, services.NewValidationError("body", "Неверный формат данных")
	}
	return services.ParseItemForm(form, ic.lenient)
}

// isForce принимает 1, true и yes без учета регистра
func isForce(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// pagination читает page и per_page из запроса
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("per_page", defaultPerPage)
	if limit < 1 {
		limit = defaultPerPage
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}
	return limit, (page - 1) * limit
}

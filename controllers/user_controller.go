package controllers

import (
	"errors"
	"strings"

	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController контроллер для управления пользователями
type UserController struct {
	DB *gorm.DB
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// CreateUserRequest запрос на создание пользователя администратором
type CreateUserRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Role     string `json:"role" form:"role" validate:"required"`
}

// CreateUser создает пользователя с ролью ADMIN, MANAGER или STAFF
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
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

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка валидации",
			"errors":  fiber.Map{"role": "Must be one of: ADMIN MANAGER STAFF"},
		})
	}

	// Проверяем, существует ли пользователь
	var existing int64
	uc.DB.WithContext(c.UserContext()).Model(&models.User{}).
		Where("username = ?", strings.TrimSpace(req.Username)).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Пользователь с таким именем уже существует",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка при создании пользователя",
		})
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}

	if err := uc.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Пользователь с таким именем уже существует",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка при создании пользователя",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userInfo(&user),
	})
}

// GetProfile возвращает текущего пользователя
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var user models.User
	if err := uc.DB.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Пользователь не найден",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo(&user),
	})
}

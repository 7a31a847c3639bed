package services

import (
	"context"
	"errors"

	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartService управляет корзинами пользователей
type CartService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCartService создает новый сервис корзин
func NewCartService(db *gorm.DB, log *zap.Logger) *CartService {
	return &CartService{db: db, log: log}
}

// CartView текущее состояние корзины с итогами
type CartView struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	Items         []models.CartItem `json:"items"`
	TotalQuantity int               `json:"total_quantity"`
	TotalValue    decimal.Decimal   `json:"total_value"`
}

// GetOrCreateCart возвращает корзину пользователя, создавая ее при первом обращении
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)

	cart := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return nil, err
	}

	// При конфликте ID не возвращается, поэтому перечитываем
	var existing models.Cart
	if err := db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// OwnedBy проверяет, что корзина принадлежит пользователю.
// Чужая корзина неотличима от несуществующей.
func (s *CartService) OwnedBy(ctx context.Context, cartID, userID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ? AND user_id = ?", cartID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound("cart")
	}
	return nil
}

// View возвращает содержимое корзины
func (s *CartService) View(ctx context.Context, cartID uint) (*CartView, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.added_at ASC, cart_items.id ASC")
		}).
		Preload("Items.Item.Category").
		First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart")
		}
		return nil, err
	}

	view := &CartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      cart.Items,
		TotalValue: decimal.Zero,
	}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	for _, line := range cart.Items {
		view.TotalQuantity += line.Quantity
		if line.Item != nil {
			view.TotalValue = view.TotalValue.Add(line.Item.Cost.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return view, nil
}

// ViewForUser возвращает корзину пользователя, создавая ее при необходимости
func (s *CartService) ViewForUser(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, cart.ID)
}

// Add добавляет товар в корзину или увеличивает количество существующей строки.
// Количество меньше единицы считается единицей.
func (s *CartService) Add(ctx context.Context, cartID, itemID uint, quantity int) (err error) {
	defer func() { utils.ObserveOperation(utils.CartOperations, "add", err) }()

	if quantity < 1 {
		quantity = 1
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCart(tx, cartID); err != nil {
			return err
		}

		var item models.Item
		err := tx.Select("id").
			Where("id = ? AND status = ?", itemID, models.ItemStatusActive).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item")
			}
			return err
		}

		// Вставка или инкремент одним запросом
		line := models.CartItem{CartID: cartID, ItemID: itemID, Quantity: quantity}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
			}),
		}).Create(&line).Error
	})
	if err != nil {
		return err
	}

	s.log.Debug("Item added to cart",
		zap.Uint("cart_id", cartID),
		zap.Uint("item_id", itemID),
		zap.Int("quantity", quantity))
	return nil
}

// SetQuantity задает количество товара в корзине, ноль или меньше удаляет строку
func (s *CartService) SetQuantity(ctx context.Context, cartID, itemID uint, quantity int) (err error) {
	if quantity <= 0 {
		return s.Remove(ctx, cartID, itemID)
	}
	defer func() { utils.ObserveOperation(utils.CartOperations, "update", err) }()

	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("cart item")
	}
	return nil
}

// Remove удаляет строку корзины
func (s *CartService) Remove(ctx context.Context, cartID, itemID uint) (err error) {
	defer func() { utils.ObserveOperation(utils.CartOperations, "remove", err) }()

	res := s.db.WithContext(ctx).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("cart item")
	}

	s.log.Debug("Item removed from cart", zap.Uint("cart_id", cartID), zap.Uint("item_id", itemID))
	return nil
}

// Clear удаляет все строки корзины
func (s *CartService) Clear(ctx context.Context, cartID uint) (err error) {
	defer func() { utils.ObserveOperation(utils.CartOperations, "clear", err) }()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCart(tx, cartID); err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
}

func ensureCart(tx *gorm.DB, cartID uint) error {
	var count int64
	if err := tx.Model(&models.Cart{}).Where("id = ?", cartID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("cart")
	}
	return nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart корзина пользователя, не более одной на пользователя
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem строка корзины, одна на пару (корзина, товар)
type CartItem struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	CartID   uint      `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_item"`
	ItemID   uint      `json:"item_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_item"`
	Quantity int       `json:"quantity" gorm:"not null;default:1;check:chk_cart_items_quantity,quantity >= 1"`
	AddedAt  time.Time `json:"added_at"`

	// Связи
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

// BeforeCreate хук для установки времени создания
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	return nil
}

// BeforeCreate хук для установки времени добавления
func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.AddedAt.IsZero() {
		ci.AddedAt = time.Now()
	}
	return nil
}

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemStatus статус товара в каталоге
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// ItemCategory категория товаров
type ItemCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	NameKey   string    `json:"-" gorm:"not null;size:100;uniqueIndex"` // имя в нижнем регистре
	CreatedAt time.Time `json:"created_at"`
}

// CategoryKey нормализует имя категории для поиска без учета регистра
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeSave поддерживает NameKey в актуальном состоянии
func (c *ItemCategory) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.NameKey = CategoryKey(c.Name)
	return nil
}

// Item позиция каталога
type Item struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SKU         string          `json:"sku" gorm:"not null;size:64;uniqueIndex"`
	Name        string          `json:"name" gorm:"not null;size:255;index"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	InStock     int             `json:"in_stock" gorm:"not null;default:0;check:chk_items_in_stock,in_stock >= 0"`
	TotalAmount int             `json:"total_amount" gorm:"not null;default:0"` // всего единиц во владении
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(12,2);not null;default:0"`
	Location    string          `json:"location" gorm:"size:255;default:''"`
	Description string          `json:"description" gorm:"type:text;default:''"`
	Status      ItemStatus      `json:"status" gorm:"size:16;not null;default:active;index"`
	CreatedByID *uint           `json:"created_by_id"`
	UpdatedByID *uint           `json:"updated_by_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Вычисляемое поле: стоимость остатка
	Value decimal.Decimal `json:"value" gorm:"-"`

	// Связи
	Category *ItemCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// IsActive сообщает, доступен ли товар
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

// StockValue возвращает cost * in_stock
func (i *Item) StockValue() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.InStock)))
}

// BeforeCreate хук для установки времени создания
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	if i.Status == "" {
		i.Status = ItemStatusActive
	}
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}

// AfterFind заполняет вычисляемые поля
func (i *Item) AfterFind(tx *gorm.DB) error {
	i.Value = i.StockValue()
	return nil
}

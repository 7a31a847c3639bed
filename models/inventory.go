package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultReorderLevel порог дозаказа по умолчанию
const DefaultReorderLevel = 10

// InventoryItem запись складского учета.
// Запись без BorrowerID описывает остаток товара на складе,
// запись с BorrowerID хранит количество единиц на руках у пользователя.
type InventoryItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ItemID       uint      `json:"item_id" gorm:"not null;uniqueIndex:idx_inventory_item_borrower"`
	Name         string    `json:"name" gorm:"not null;size:255"`
	Location     string    `json:"location" gorm:"size:255;default:''"`
	Quantity     int       `json:"quantity" gorm:"not null;default:0;check:chk_inventory_items_quantity,quantity >= 0"`
	ReorderLevel int       `json:"reorder_level" gorm:"not null;default:10"`
	BorrowerID   *uint     `json:"borrower_id" gorm:"uniqueIndex:idx_inventory_item_borrower"`
	CreatedByID  *uint     `json:"created_by_id"`
	UpdatedByID  *uint     `json:"updated_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связи
	Item     *Item `json:"item,omitempty" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Borrower *User `json:"borrower,omitempty" gorm:"foreignKey:BorrowerID"`
}

// IsStockRecord сообщает, является ли запись складским остатком
func (i *InventoryItem) IsStockRecord() bool {
	return i.BorrowerID == nil
}

// NeedsReorder сообщает, опустился ли остаток до порога дозаказа
func (i *InventoryItem) NeedsReorder() bool {
	return i.IsStockRecord() && i.Quantity <= i.ReorderLevel
}

// BeforeCreate хук для установки времени создания
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	if i.ReorderLevel == 0 {
		i.ReorderLevel = DefaultReorderLevel
	}
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *InventoryItem) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}

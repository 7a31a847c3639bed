package services

import (
	"context"
	"errors"
	"fmt"

	"inventro-backend/models"
	"inventro-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryService выдает и принимает единицы товара со склада
type InventoryService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewInventoryService создает новый сервис склада
func NewInventoryService(db *gorm.DB, log *zap.Logger) *InventoryService {
	return &InventoryService{db: db, log: log}
}

// LedgerFilter параметры выборки журнала выдачи
type LedgerFilter struct {
	ItemID     uint
	BorrowerID uint
	Limit      int
	Offset     int
}

// Borrow выдает пользователю одну единицу товара.
// Остаток уменьшается и запись пользователя увеличивается в одной транзакции.
func (s *InventoryService) Borrow(ctx context.Context, userID, itemID uint) (ledger *models.InventoryItem, err error) {
	defer func() { utils.ObserveOperation(utils.StockOperations, "borrow", err) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", itemID, models.ItemStatusActive).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item")
			}
			return err
		}

		// Условное списание: строка обновляется только при наличии остатка
		res := tx.Model(&models.Item{}).
			Where("id = ? AND in_stock >= 1", itemID).
			Updates(map[string]interface{}{
				"in_stock":      gorm.Expr("in_stock - 1"),
				"updated_by_id": userID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrOutOfStock, item.SKU)
		}

		row := models.InventoryItem{
			ItemID:      itemID,
			Name:        item.Name,
			Location:    item.Location,
			Quantity:    1,
			BorrowerID:  &userID,
			CreatedByID: &userID,
			UpdatedByID: &userID,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}, {Name: "borrower_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":      gorm.Expr("inventory_items.quantity + 1"),
				"updated_by_id": userID,
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		if err := syncStockRecord(tx, itemID); err != nil {
			return err
		}

		var current models.InventoryItem
		if err := tx.Where("item_id = ? AND borrower_id = ?", itemID, userID).First(&current).Error; err != nil {
			return err
		}
		ledger = &current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Item borrowed",
		zap.Uint("user_id", userID),
		zap.Uint("item_id", itemID),
		zap.Int("held", ledger.Quantity))
	return ledger, nil
}

// Return возвращает на склад одну единицу товара, выданную пользователю
func (s *InventoryService) Return(ctx context.Context, userID, itemID uint) (err error) {
	defer func() { utils.ObserveOperation(utils.StockOperations, "return", err) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ledger models.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_id = ? AND borrower_id = ?", itemID, userID).
			First(&ledger).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("borrowed item")
			}
			return err
		}

		if ledger.Quantity > 1 {
			err = tx.Model(&ledger).Updates(map[string]interface{}{
				"quantity":      gorm.Expr("quantity - 1"),
				"updated_by_id": userID,
			}).Error
		} else {
			err = tx.Delete(&ledger).Error
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.Item{}).
			Where("id = ?", itemID).
			Updates(map[string]interface{}{
				"in_stock":      gorm.Expr("in_stock + 1"),
				"updated_by_id": userID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("item")
		}

		return syncStockRecord(tx, itemID)
	})
	if err != nil {
		return err
	}

	s.log.Info("Item returned", zap.Uint("user_id", userID), zap.Uint("item_id", itemID))
	return nil
}

// ListForUser возвращает товары, которые сейчас на руках у пользователя
func (s *InventoryService) ListForUser(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := s.db.WithContext(ctx).
		Preload("Item.Category").
		Where("borrower_id = ?", userID).
		Order("name ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// ListLedger возвращает журнал складского учета.
// Записи остатков идут вместе с записями выдачи.
func (s *InventoryService) ListLedger(ctx context.Context, filter LedgerFilter) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem

	query := s.db.WithContext(ctx).Preload("Item").Preload("Borrower").Order("name ASC, id ASC")
	if filter.ItemID != 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.BorrowerID != 0 {
		query = query.Where("borrower_id = ?", filter.BorrowerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Find(&rows).Error
	return rows, err
}

// syncStockRecord выравнивает количество в записи остатка с in_stock товара
func syncStockRecord(tx *gorm.DB, itemID uint) error {
	return tx.Model(&models.InventoryItem{}).
		Where("item_id = ? AND borrower_id IS NULL", itemID).
		Update("quantity", tx.Model(&models.Item{}).Select("in_stock").Where("id = ?", itemID)).Error
}

package services

import (
	"context"
	"errors"
	"strings"

	"inventro-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Фильтры по остатку в списке товаров
const (
	StockFilterIn  = "in"
	StockFilterOut = "out"
	StockFilterLow = "low"
)

// ItemIndexer принимает товары для полнотекстового поиска
type ItemIndexer interface {
	IndexItem(ctx context.Context, item *models.Item) error
}

// ItemFilter параметры списка товаров
type ItemFilter struct {
	Query    string
	Stock    string
	Category string
	Limit    int
	Offset   int
}

// ItemService управляет каталогом товаров и связанными записями остатков
type ItemService struct {
	db      *gorm.DB
	log     *zap.Logger
	indexer ItemIndexer
}

// NewItemService создает новый сервис каталога. indexer может быть nil.
func NewItemService(db *gorm.DB, log *zap.Logger, indexer ItemIndexer) *ItemService {
	return &ItemService{db: db, log: log, indexer: indexer}
}

// GetOrCreateCategory находит категорию по имени без учета регистра или создает новую
func (s *ItemService) GetOrCreateCategory(ctx context.Context, name string) (*models.ItemCategory, error) {
	return getOrCreateCategory(s.db.WithContext(ctx), name)
}

// ListCategories возвращает все категории по алфавиту
func (s *ItemService) ListCategories(ctx context.Context) ([]models.ItemCategory, error) {
	var categories []models.ItemCategory
	err := s.db.WithContext(ctx).Order("name_key ASC").Find(&categories).Error
	return categories, err
}

// Get возвращает активный товар
func (s *ItemService) Get(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Preload("Category").
		Where("id = ? AND status = ?", id, models.ItemStatusActive).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("item")
		}
		return nil, err
	}
	return &item, nil
}

// List возвращает активные товары по фильтру и общее количество совпадений
func (s *ItemService) List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("items.status = ?", models.ItemStatusActive)

	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(items.name) LIKE ? OR LOWER(items.sku) LIKE ?", like, like)
	}

	switch filter.Stock {
	case "":
	case StockFilterIn:
		query = query.Where("items.in_stock > 0")
	case StockFilterOut:
		query = query.Where("items.in_stock <= 0")
	case StockFilterLow:
		query = query.Where("items.in_stock < items.total_amount")
	default:
		return nil, 0, NewValidationError("status", "Must be one of: in out low")
	}

	if category := models.CategoryKey(filter.Category); category != "" {
		query = query.Joins("JOIN item_categories ON item_categories.id = items.category_id").
			Where("item_categories.name_key = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []models.Item
	err := query.Preload("Category").Order("items.name ASC, items.id ASC").Find(&items).Error
	return items, total, err
}

// Create создает товар вместе с записью остатка
func (s *ItemService) Create(ctx context.Context, input *ItemInput, actorID uint) (*models.Item, error) {
	var item models.Item

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := resolveCategory(tx, input)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Item{}).Where("sku = ?", input.SKU).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict("sku already exists")
		}

		item = models.Item{
			SKU:         input.SKU,
			Name:        input.Name,
			CategoryID:  category.ID,
			InStock:     input.InStock,
			TotalAmount: input.TotalAmount,
			Cost:        input.Cost,
			Location:    input.Location,
			Description: input.Description,
			Status:      models.ItemStatusActive,
			CreatedByID: uintPtr(actorID),
			UpdatedByID: uintPtr(actorID),
		}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("sku already exists")
			}
			return err
		}

		stock := models.InventoryItem{
			ItemID:       item.ID,
			Name:         item.Name,
			Location:     item.Location,
			Quantity:     item.InStock,
			ReorderLevel: input.ReorderLevel,
			CreatedByID:  uintPtr(actorID),
			UpdatedByID:  uintPtr(actorID),
		}
		if err := tx.Create(&stock).Error; err != nil {
			return err
		}

		item.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	item.Value = item.StockValue()
	s.log.Info("Item created", zap.Uint("item_id", item.ID), zap.String("sku", item.SKU))
	s.index(ctx, &item)
	return &item, nil
}

// Update изменяет товар и его запись остатка
func (s *ItemService) Update(ctx context.Context, id uint, input *ItemInput, actorID uint) (*models.Item, error) {
	var item models.Item

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, models.ItemStatusActive).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item")
			}
			return err
		}

		category, err := resolveCategory(tx, input)
		if err != nil {
			return err
		}

		if input.SKU != item.SKU {
			var count int64
			if err := tx.Model(&models.Item{}).Where("sku = ? AND id <> ?", input.SKU, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return conflict("sku already exists")
			}
		}

		err = tx.Model(&item).Updates(map[string]interface{}{
			"sku":           input.SKU,
			"name":          input.Name,
			"category_id":   category.ID,
			"in_stock":      input.InStock,
			"total_amount":  input.TotalAmount,
			"cost":          input.Cost,
			"location":      input.Location,
			"description":   input.Description,
			"updated_by_id": uintPtr(actorID),
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("sku already exists")
			}
			return err
		}

		if err := upsertStockRecord(tx, id, input, actorID); err != nil {
			return err
		}

		return tx.Preload("Category").First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Item updated", zap.Uint("item_id", item.ID), zap.String("sku", item.SKU))
	s.index(ctx, &item)
	return &item, nil
}

// Delete снимает товар с учета.
// Товар с положительным остатком снимается только при force.
// Строка не удаляется, статус меняется на inactive.
func (s *ItemService) Delete(ctx context.Context, id uint, force bool, actorID uint) error {
	var item models.Item

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, models.ItemStatusActive).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item")
			}
			return err
		}

		if item.InStock > 0 && !force {
			return conflict("item still has stock")
		}

		return tx.Model(&item).Updates(map[string]interface{}{
			"status":        models.ItemStatusInactive,
			"updated_by_id": uintPtr(actorID),
		}).Error
	})
	if err != nil {
		return err
	}
	item.Status = models.ItemStatusInactive

	s.log.Info("Item deactivated",
		zap.Uint("item_id", item.ID),
		zap.Bool("force", force),
		zap.Int("in_stock", item.InStock))
	s.index(ctx, &item)
	return nil
}

// index отправляет товар в поиск, ошибки только логируются
func (s *ItemService) index(ctx context.Context, item *models.Item) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexItem(ctx, item); err != nil {
		s.log.Warn("Failed to index item", zap.Uint("item_id", item.ID), zap.Error(err))
	}
}

func resolveCategory(tx *gorm.DB, input *ItemInput) (*models.ItemCategory, error) {
	if input.CategoryID != 0 {
		var category models.ItemCategory
		if err := tx.First(&category, input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("category_id", "Unknown category")
			}
			return nil, err
		}
		return &category, nil
	}
	return getOrCreateCategory(tx, input.Category)
}

func getOrCreateCategory(db *gorm.DB, name string) (*models.ItemCategory, error) {
	key := models.CategoryKey(name)
	if key == "" {
		return nil, NewValidationError("category", "This field is required")
	}

	category := models.ItemCategory{Name: name}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name_key"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, err
	}

	var existing models.ItemCategory
	if err := db.Where("name_key = ?", key).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func upsertStockRecord(tx *gorm.DB, itemID uint, input *ItemInput, actorID uint) error {
	var stock models.InventoryItem
	err := tx.Where("item_id = ? AND borrower_id IS NULL", itemID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stock = models.InventoryItem{
			ItemID:       itemID,
			Name:         input.Name,
			Location:     input.Location,
			Quantity:     input.InStock,
			ReorderLevel: input.ReorderLevel,
			CreatedByID:  uintPtr(actorID),
			UpdatedByID:  uintPtr(actorID),
		}
		return tx.Create(&stock).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&stock).Updates(map[string]interface{}{
		"name":          input.Name,
		"location":      input.Location,
		"quantity":      input.InStock,
		"reorder_level": input.ReorderLevel,
		"updated_by_id": uintPtr(actorID),
	}).Error
}

package services

import (
	"context"
	"time"

	"inventro-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold граница малого остатка по умолчанию
const DefaultLowStockThreshold = 10

// Metrics сводка для дашборда
type Metrics struct {
	TotalItems        int64           `json:"total_items"`
	LowStock          int64           `json:"low_stock"`
	OutOfStock        int64           `json:"out_of_stock"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
	NewItems7d        int64           `json:"new_items_7d"`
	Categories        int64           `json:"categories"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// MetricsService считает сводные показатели по активным товарам
type MetricsService struct {
	db        *gorm.DB
	log       *zap.Logger
	threshold int
	now       func() time.Time
}

// NewMetricsService создает сервис метрик. Порог меньше единицы заменяется значением по умолчанию.
func NewMetricsService(db *gorm.DB, log *zap.Logger, lowStockThreshold int) *MetricsService {
	if lowStockThreshold < 1 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &MetricsService{db: db, log: log, threshold: lowStockThreshold, now: time.Now}
}

// Compute возвращает метрики. При любой ошибке чтения возвращаются нули,
// чтобы дашборд открывался и до первичной инициализации базы.
func (s *MetricsService) Compute(ctx context.Context) Metrics {
	metrics, err := s.compute(ctx)
	if err != nil {
		s.log.Warn("Failed to compute dashboard metrics", zap.Error(err))
		return s.empty()
	}
	return metrics
}

func (s *MetricsService) empty() Metrics {
	return Metrics{InventoryValue: decimal.Zero, LowStockThreshold: s.threshold}
}

func (s *MetricsService) active(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Item{}).Where("status = ?", models.ItemStatusActive)
}

func (s *MetricsService) compute(ctx context.Context) (Metrics, error) {
	m := s.empty()

	if err := s.active(ctx).Count(&m.TotalItems).Error; err != nil {
		return m, err
	}
	if err := s.active(ctx).Where("in_stock > 0 AND in_stock <= ?", s.threshold).Count(&m.LowStock).Error; err != nil {
		return m, err
	}
	if err := s.active(ctx).Where("in_stock <= 0").Count(&m.OutOfStock).Error; err != nil {
		return m, err
	}
	if err := s.active(ctx).Where("created_at >= ?", s.now().AddDate(0, 0, -7)).Count(&m.NewItems7d).Error; err != nil {
		return m, err
	}
	if err := s.active(ctx).Distinct("category_id").Count(&m.Categories).Error; err != nil {
		return m, err
	}

	// Стоимость суммируется в decimal
	var rows []struct {
		Cost    decimal.Decimal
		InStock int
	}
	if err := s.active(ctx).Select("cost", "in_stock").Scan(&rows).Error; err != nil {
		return m, err
	}
	for _, row := range rows {
		m.InventoryValue = m.InventoryValue.Add(row.Cost.Mul(decimal.NewFromInt(int64(row.InStock))))
	}

	return m, nil
}

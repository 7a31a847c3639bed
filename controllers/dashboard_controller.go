package controllers

import (
	"inventro-backend/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardController контроллер сводки и поиска
type DashboardController struct {
	metrics *services.MetricsService
	search  *services.SearchService
	log     *zap.Logger
}

// NewDashboardController создает новый экземпляр DashboardController
func NewDashboardController(metrics *services.MetricsService, search *services.SearchService, log *zap.Logger) *DashboardController {
	return &DashboardController{metrics: metrics, search: search, log: log}
}

// GetMetrics возвращает сводные показатели склада
func (dc *DashboardController) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(dc.metrics.Compute(c.UserContext()))
}

// Search выполняет полнотекстовый поиск товаров.
// Недоступность поиска дает пустой результат.
func (dc *DashboardController) Search(c *fiber.Ctx) error {
	query := c.Query("q")

	results, err := dc.search.Search(c.UserContext(), query, c.QueryInt("limit", services.DefaultSearchLimit))
	if err != nil {
		dc.log.Warn("Search unavailable", zap.String("query", query), zap.Error(err))
		results = []services.SearchResult{}
	}

	return c.JSON(fiber.Map{
		"results": results,
	})
}

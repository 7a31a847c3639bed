package utils

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP метрики
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventro_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес метрики
var (
	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventro_cart_operations_total",
			Help: "Cart mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	StockOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventro_stock_operations_total",
			Help: "Borrow and return operations by result",
		},
		[]string{"operation", "result"},
	)

	SearchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventro_search_failures_total",
			Help: "Search requests that fell back to empty results",
		},
	)
)

// Результаты операций для меток
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ObserveOperation увеличивает счетчик операции с учетом результата
func ObserveOperation(counter *prometheus.CounterVec, operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	counter.WithLabelValues(operation, result).Inc()
}

// PrometheusMiddleware собирает метрики по HTTP запросам
func PrometheusMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	// Используем шаблон маршрута, чтобы не плодить метки
	path := c.Route().Path
	status := c.Response().StatusCode()
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
	}

	HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

	return err
}

// MetricsHandler отдает метрики в формате Prometheus
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

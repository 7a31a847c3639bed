package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"inventro-backend/config"
	"inventro-backend/models"
	"inventro-backend/utils"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// DefaultSearchLimit количество результатов поиска по умолчанию
const DefaultSearchLimit = 20

// SearchResult найденный товар
type SearchResult struct {
	ID       uint    `json:"id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	InStock  int     `json:"in_stock"`
	Score    float64 `json:"score"`
}

type searchDocument struct {
	ID       uint   `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
	Status   string `json:"status"`
	InStock  int    `json:"in_stock"`
}

// SearchService работает с внешним полнотекстовым поиском.
// Без клиента (поиск выключен) все запросы возвращают пустой результат.
type SearchService struct {
	client *elasticsearch.Client
	index  string
	log    *zap.Logger
}

// NewSearchService создает сервис поиска по конфигурации
func NewSearchService(cfg config.SearchConfig, log *zap.Logger) (*SearchService, error) {
	svc := &SearchService{index: cfg.Index, log: log}
	if !cfg.Enabled {
		return svc, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// Enabled сообщает, подключен ли внешний поиск
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

// Search ищет активные товары по названию, SKU, категории и месту хранения
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if !s.Enabled() || query == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"name^2", "sku", "category", "location"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"status": string(models.ItemStatusActive)},
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		utils.SearchFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		utils.SearchFailures.Inc()
		return nil, fmt.Errorf("%w: search responded %s", ErrServiceUnavailable, res.Status())
	}

	var payload struct {
		Hits struct {
			Hits []struct {
				Score  float64        `json:"_score"`
				Source searchDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		utils.SearchFailures.Inc()
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceUnavailable, err)
	}

	results := make([]SearchResult, 0, len(payload.Hits.Hits))
	for _, hit := range payload.Hits.Hits {
		results = append(results, SearchResult{
			ID:       hit.Source.ID,
			SKU:      hit.Source.SKU,
			Name:     hit.Source.Name,
			Category: hit.Source.Category,
			Location: hit.Source.Location,
			InStock:  hit.Source.InStock,
			Score:    hit.Score,
		})
	}
	return results, nil
}

// IndexItem сохраняет товар в поисковом индексе
func (s *SearchService) IndexItem(ctx context.Context, item *models.Item) error {
	if !s.Enabled() {
		return nil
	}

	doc := searchDocument{
		ID:       item.ID,
		SKU:      item.SKU,
		Name:     item.Name,
		Location: item.Location,
		Status:   string(item.Status),
		InStock:  item.InStock,
	}
	if item.Category != nil {
		doc.Category = item.Category.Name
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(data),
		s.client.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index responded %s", ErrServiceUnavailable, res.Status())
	}

	s.log.Debug("Item indexed", zap.Uint("item_id", item.ID))
	return nil
}

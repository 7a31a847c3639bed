package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"inventro-backend/config"
	"inventro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearchCluster struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	status   int
	response string
}

func (f *fakeSearchCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.response))
}

func newTestSearchService(t *testing.T, url string) *SearchService {
	t.Helper()

	svc, err := NewSearchService(config.SearchConfig{
		Enabled:   true,
		Addresses: []string{url},
		Index:     "items-test",
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestSearchDisabled(t *testing.T) {
	svc, err := NewSearchService(config.SearchConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), "drill", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, svc.IndexItem(context.Background(), &models.Item{ID: 1}))
}

func TestSearchParsesHits(t *testing.T) {
	cluster := &fakeSearchCluster{
		status: http.StatusOK,
		response: `{"hits":{"total":{"value":1},"hits":[
			{"_id":"7","_score":3.5,"_source":{"id":7,"sku":"DR-1","name":"Drill","category":"Tools","location":"A1","status":"active","in_stock":2}}
		]}}`,
	}
	server := httptest.NewServer(cluster)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)
	results, err := svc.Search(context.Background(), "drill", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, uint(7), results[0].ID)
	assert.Equal(t, "Drill", results[0].Name)
	assert.Equal(t, 3.5, results[0].Score)

	require.Len(t, cluster.requests, 1)
	assert.True(t, strings.HasSuffix(cluster.requests[0], "/items-test/_search"), cluster.requests[0])

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cluster.bodies[0]), &query))
	assert.EqualValues(t, 5, query["size"])
	assert.Contains(t, cluster.bodies[0], `"name^2"`)
}

func TestSearchEmptyQuerySkipsCluster(t *testing.T) {
	cluster := &fakeSearchCluster{status: http.StatusOK, response: `{}`}
	server := httptest.NewServer(cluster)
	defer server.Close()

	results, err := newTestSearchService(t, server.URL).Search(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, cluster.requests)
}

func TestSearchClusterError(t *testing.T) {
	cluster := &fakeSearchCluster{status: http.StatusInternalServerError, response: `{"error":"boom"}`}
	server := httptest.NewServer(cluster)
	defer server.Close()

	_, err := newTestSearchService(t, server.URL).Search(context.Background(), "drill", 0)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSearchClusterDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := newTestSearchService(t, url)

	_, err := svc.Search(context.Background(), "drill", 0)
	assert.ErrorIs(t, err, ErrServiceUnavailable)

	err = svc.IndexItem(context.Background(), &models.Item{ID: 3, SKU: "X"})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestIndexItem(t *testing.T) {
	cluster := &fakeSearchCluster{status: http.StatusCreated, response: `{"result":"created"}`}
	server := httptest.NewServer(cluster)
	defer server.Close()

	item := &models.Item{
		ID:       42,
		SKU:      "HX-42",
		Name:     "Hex Keys",
		Status:   models.ItemStatusActive,
		InStock:  8,
		Category: &models.ItemCategory{Name: "Tools"},
	}
	require.NoError(t, newTestSearchService(t, server.URL).IndexItem(context.Background(), item))

	require.Len(t, cluster.requests, 1)
	assert.Equal(t, "PUT /items-test/_doc/42", cluster.requests[0])

	var doc searchDocument
	require.NoError(t, json.Unmarshal([]byte(cluster.bodies[0]), &doc))
	assert.Equal(t, "Tools", doc.Category)
	assert.Equal(t, "active", doc.Status)
}

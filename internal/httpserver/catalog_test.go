package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seedProduct(t, "Арахис", 50, true)
	app.seedProduct(t, "Кешью", 150, true)
	app.seedProduct(t, "Черновик", 99, false)

	rec := app.do(http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data  []json.RawMessage `json:"data"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestGetProductEndpoint(t *testing.T) {
	app := newTestApp(t)
	p := app.seedProduct(t, "Миндаль", 200, true)

	rec := app.do(http.MethodGet, "/products/"+p.Slug, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Миндаль")

	rec = app.do(http.MethodGet, "/products/no-such-slug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch_DisabledWithoutElasticsearch(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/search?q=nuts", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/ready", nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/metrics", nil).Code)
}

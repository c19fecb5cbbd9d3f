package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/oreshnik/storefront/internal/search"
	"github.com/oreshnik/storefront/internal/service"
	"github.com/oreshnik/storefront/internal/util"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	ES      *elasticsearch.Client
	ESIndex string
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	result, err := h.Svc.ListProducts(c.Request().Context(), page, size)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	product, err := h.Svc.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search disabled")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := search.Products(c.Request().Context(), h.ES, h.ESIndex, query, from, limit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

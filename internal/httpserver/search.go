package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/models"
)

// Searcher answers product queries from the local index.
type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type SearchHandler struct {
	Index Searcher
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.Index == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	total, products, err := h.Index.Search(c.Request().Context(), query, (page-1)*size, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": products,
		"meta": echo.Map{
			"page":  page,
			"size":  size,
			"total": total,
		},
	})
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

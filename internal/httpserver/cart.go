package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/store"
)

type CartHandler struct {
	Store *store.CartStore
}

// Get refreshes the cart and serves the snapshot with its recomputed total.
// A failed refresh serves the prior snapshot (stale read).
func (h *CartHandler) Get(c echo.Context) error {
	if err := h.Store.Fetch(c.Request().Context()); err != nil {
		c.Logger().Warnf("cart refresh failed: %v", err)
	}
	return h.snapshot(c)
}

func (h *CartHandler) Add(c echo.Context) error {
	var req struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	if err := h.Store.Add(c.Request().Context(), req.ProductID, req.Quantity); err != nil {
		return apiError(err)
	}
	return h.snapshot(c)
}

func (h *CartHandler) Remove(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart line id")
	}

	if err := h.Store.Remove(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return h.snapshot(c)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.Store.Clear(c.Request().Context()); err != nil {
		return apiError(err)
	}
	return h.snapshot(c)
}

func (h *CartHandler) snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items": h.Store.Items(),
		"total": h.Store.Total(),
	})
}

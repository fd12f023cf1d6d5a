package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/models"
	"github.com/liquorlane/liquorfront/internal/store"
)

type CatalogHandler struct {
	Store *store.CatalogStore
}

// List refreshes the catalog and serves the snapshot. A failed refresh
// still serves the prior list, with the store's error flag alongside.
func (h *CatalogHandler) List(c echo.Context) error {
	if err := h.Store.Fetch(c.Request().Context()); err != nil {
		c.Logger().Warnf("catalog refresh failed: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":  h.Store.Products(),
		"error": errString(h.Store.Err()),
	})
}

func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Store.FetchByID(c.Request().Context(), id)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Categories())
}

func (h *CatalogHandler) Create(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.Store.Add(c.Request().Context(), product)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Store.Update(c.Request().Context(), id, product); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

func (h *CatalogHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

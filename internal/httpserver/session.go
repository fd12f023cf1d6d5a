package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/models"
	"github.com/liquorlane/liquorfront/internal/store"
)

type SessionHandler struct {
	Store *store.SessionStore
}

func (h *SessionHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Store.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":     h.Store.Current(),
		"is_admin": h.Store.IsAdmin(),
	})
}

func (h *SessionHandler) Register(c echo.Context) error {
	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Store.Register(c.Request().Context(), profile); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "registered"})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	h.Store.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": h.Store.IsAuthenticated(),
		"is_admin":      h.Store.IsAdmin(),
		"user":          h.Store.Current(),
	})
}

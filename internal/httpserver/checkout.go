package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/backend"
	"github.com/liquorlane/liquorfront/internal/store"
)

type CheckoutHandler struct {
	API     *backend.Client
	Session *store.SessionStore
	Cart    *store.CartStore
}

// Pay initiates a mobile-money prompt for the current cart total. With an
// empty body the registered mobile number is used.
func (h *CheckoutHandler) Pay(c echo.Context) error {
	var req struct {
		MobileNumber string `json:"mobileNumber"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	number := req.MobileNumber
	if number == "" {
		if sess := h.Session.Current(); sess != nil {
			number = sess.MobileNumber
		}
	}
	// The payment gateway wants the local form, without the country code.
	number = strings.TrimPrefix(number, "+254")
	if number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mobile number required")
	}

	total := h.Cart.Total()
	if total == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	if err := h.API.STKPush(c.Request().Context(), h.Session.Token(), number, total); err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message": "payment prompt sent",
		"amount":  total,
	})
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/backend"
)

// apiError maps a store error onto the facade response: backend rejections
// keep their status, transport failures become 502.
func apiError(err error) error {
	var se *backend.StatusError
	if errors.As(err, &se) {
		msg := se.Body
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		return echo.NewHTTPError(se.Code, msg)
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

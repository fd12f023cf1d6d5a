// Package httpserver is the local HTTP facade over the stores: the routes
// mirror the storefront's views and read or mutate store state, never the
// backend directly (checkout's payment initiation is the one passthrough).
package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liquorlane/liquorfront/internal/store"
)

type Deps struct {
	SessionHandler  *SessionHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	SearchHandler   *SearchHandler
	Session         *store.SessionStore
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/login", d.SessionHandler.Login)
	e.POST("/register", d.SessionHandler.Register)
	e.POST("/logout", d.SessionHandler.Logout)
	e.GET("/session", d.SessionHandler.Current)

	e.GET("/products", d.CatalogHandler.List)
	e.GET("/products/:id", d.CatalogHandler.Get)
	e.GET("/categories", d.CatalogHandler.Categories)
	e.GET("/search", d.SearchHandler.Search)

	cart := e.Group("/cart", RequireAuth(d.Session))
	cart.GET("", d.CartHandler.Get)
	cart.POST("", d.CartHandler.Add)
	cart.DELETE("/:id", d.CartHandler.Remove)
	cart.DELETE("", d.CartHandler.Clear)

	e.POST("/checkout", d.CheckoutHandler.Pay, RequireAuth(d.Session))

	admin := e.Group("/admin/products", RequireAdmin(d.Session))
	admin.POST("", d.CatalogHandler.Create)
	admin.PUT("/:id", d.CatalogHandler.Update)
	admin.DELETE("/:id", d.CatalogHandler.Delete)
}

func RequireAuth(sess *store.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sess.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}

// RequireAdmin uses the session store's role predicate, so guard and
// IsAdmin flag share one comparison rule.
func RequireAdmin(sess *store.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sess.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			if !sess.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oreshnik/storefront/internal/identity"
)

// Deps carries the wired handlers for route registration.
type Deps struct {
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Payment  *PaymentHTTP
	Catalog  *CatalogHTTP
	Auth     *AuthHTTP

	JWTSecret []byte
}

func Register(e *echo.Echo, d Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/register", d.Auth.Register)
	e.POST("/auth/login", d.Auth.Login)

	e.GET("/products", d.Catalog.ListProducts)
	e.GET("/products/:slug", d.Catalog.GetProduct)
	e.GET("/search", d.Catalog.SearchProducts)

	// Everything below needs a resolved caller, authenticated or not.
	g := e.Group("", identity.Middleware(d.JWTSecret))

	g.GET("/cart", d.Cart.GetCartPage)
	g.GET("/cart/count", d.Cart.GetCartCount)
	g.GET("/cart/mini", d.Cart.GetMiniCart)
	g.POST("/cart/add/:product_id", d.Cart.AddToCart)
	g.POST("/cart/item/:item_id/update", d.Cart.UpdateCartItem)
	g.POST("/cart/item/:item_id/remove", d.Cart.RemoveCartItem)

	g.GET("/checkout", d.Checkout.GetCheckout)
	g.POST("/checkout", d.Checkout.PostCheckout)
	g.GET("/orders", d.Checkout.MyOrders)

	g.GET("/payment/:order_number", d.Payment.GetPayment)
	g.POST("/payment/:order_number", d.Payment.PostPayment)
}

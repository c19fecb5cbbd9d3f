package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oreshnik/storefront/internal/hypertext"
	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/metrics"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/mykafka"
	"github.com/oreshnik/storefront/internal/service"
)

const flashCookie = "flash"

type CartHTTP struct {
	Svc      *service.CartService
	Renderer *hypertext.Renderer
	Producer *mykafka.Producer
}

func (h *CartHTTP) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	key := identity.From(c).Key()
	if err := h.Producer.PublishEvent(ctx, "cart_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// GetCartPage renders the cart view, consuming a one-shot flash warning
// left by a redirecting handler.
func (h *CartHTTP) GetCartPage(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.Svc.GetCart(ctx, identity.From(c))
	if err != nil {
		return internalError(c, err)
	}

	warning := ""
	if cookie, err := c.Cookie(flashCookie); err == nil && cookie.Value != "" {
		if decoded, err := url.QueryUnescape(cookie.Value); err == nil {
			warning = decoded
		}
		c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	}

	body, err := h.Renderer.CartPage(hypertext.CartPageData{Cart: cart, Warning: warning})
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(http.StatusOK, body)
}

func (h *CartHTTP) GetCartCount(c echo.Context) error {
	cart, err := h.Svc.GetCart(c.Request().Context(), identity.From(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(http.StatusOK, hypertext.Counter(cart.TotalItems()))
}

func (h *CartHTTP) GetMiniCart(c echo.Context) error {
	cart, err := h.Svc.GetCart(c.Request().Context(), identity.From(c))
	if err != nil {
		return internalError(c, err)
	}

	body, err := h.Renderer.MiniCart(cart)
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(http.StatusOK, body)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	quantity := 1
	if q := c.FormValue("quantity"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			quantity = n
		}
	}

	cart, err := h.Svc.AddToCart(ctx, identity.From(c), uint(productID), uint(quantity))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return internalError(c, err)
	}
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()

	h.publish(c, map[string]any{
		"type":       "add_to_cart",
		"product_id": productID,
		"quantity":   quantity,
	})

	body, err := h.Renderer.AddToCartBody(cart)
	if err != nil {
		return internalError(c, err)
	}

	triggers := hypertext.Triggers{
		hypertext.EventShowMessage: "Товар успешно добавлен в корзину",
		hypertext.EventCartUpdated: "",
	}
	c.Response().Header().Set(hypertext.HXTrigger, triggers.Header())

	l.Info("item added to cart", "product_id", productID, "quantity", quantity)
	return c.HTML(http.StatusOK, body)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil || itemID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	action := c.FormValue("action")

	cart, err := h.Svc.ChangeQuantity(ctx, identity.From(c), uint(itemID), action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_cart_item_error", "status", 404, "item_id", itemID)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "action must be increase or decrease")
		default:
			return internalError(c, err)
		}
	}
	metrics.CartMutationsTotal.WithLabelValues(action).Inc()

	h.publish(c, map[string]any{
		"type":    "cart_item_updated",
		"item_id": itemID,
		"action":  action,
	})

	return h.cartUpdateResponse(c, cart)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil || itemID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, err := h.Svc.RemoveItem(ctx, identity.From(c), uint(itemID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_cart_item_error", "status", 404, "item_id", itemID)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return internalError(c, err)
	}
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()

	h.publish(c, map[string]any{
		"type":    "cart_item_removed",
		"item_id": itemID,
	})

	return h.cartUpdateResponse(c, cart)
}

// cartUpdateResponse is the shared multi-fragment answer for mutations on
// existing lines: one body updates the mini-cart, counter, checkout table
// and totals; the HX-Trigger header tells the page what happened.
func (h *CartHTTP) cartUpdateResponse(c echo.Context, cart *models.Cart) error {
	body, err := h.Renderer.CartUpdateBody(cart)
	if err != nil {
		return internalError(c, err)
	}
	c.Response().Header().Set(hypertext.HXTrigger, hypertext.CartTriggers(cart).Header())
	return c.HTML(http.StatusOK, body)
}

func internalError(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).Error("internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

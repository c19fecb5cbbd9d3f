package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
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

type CheckoutHTTP struct {
	Svc      *service.CheckoutService
	Cart     *service.CartService
	Users    *service.AuthService
	Renderer *hypertext.Renderer
	Producer *mykafka.Producer

	// SuccessURL is where the customer lands after a non-card checkout.
	SuccessURL string
}

// GetCheckout renders the checkout form, pre-filled from the profile when
// the caller is authenticated.
func (h *CheckoutHTTP) GetCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	id := identity.From(c)

	cart, err := h.Cart.GetCart(ctx, id)
	if err != nil {
		return internalError(c, err)
	}

	form := map[string]string{}
	if id.Authenticated() {
		if user, err := h.Users.Profile(ctx, id.UserID); err == nil {
			form = map[string]string{
				"first_name":   strings.TrimSpace(user.FirstName + " " + user.LastName),
				"phone":        user.Phone,
				"email":        user.Email,
				"city":         user.City,
				"address_line": user.AddressLine,
				"company_name": user.CompanyName,
				"okpo":         user.OKPO,
			}
		}
	}

	body, err := h.Renderer.CheckoutPage(hypertext.CheckoutPageData{
		Cart: cart,
		Form: form,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(http.StatusOK, body)
}

// PostCheckout runs the checkout algorithm and branches to the mock
// gateway for card payments, the success page for everything else.
func (h *CheckoutHTTP) PostCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")
	id := identity.From(c)

	var form service.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, id, &form)
	if err != nil {
		var fe service.FieldErrors
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			metrics.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
			l.Warn("checkout with empty cart")
			// Cookie values cannot carry raw non-ASCII bytes.
			c.SetCookie(&http.Cookie{Name: flashCookie, Value: url.QueryEscape("Ваша корзина пуста."), Path: "/"})
			return c.Redirect(http.StatusSeeOther, "/cart")
		case errors.As(err, &fe):
			metrics.CheckoutFailedTotal.WithLabelValues("validation").Inc()
			return h.renderFormErrors(c, id, &form, fe, http.StatusUnprocessableEntity)
		default:
			metrics.CheckoutFailedTotal.WithLabelValues("internal").Inc()
			l.Error("order creation failed", "error", err)
			generic := service.FieldErrors{"form": "Произошла ошибка при оформлении заказа. Попробуйте еще раз."}
			return h.renderFormErrors(c, id, &form, generic, http.StatusInternalServerError)
		}
	}
	metrics.OrdersCreatedTotal.Inc()

	h.publishOrder(c, map[string]any{
		"type":         "order_created",
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount,
		"items_count":  order.ItemsCount,
	})

	l.Info("order placed", "order_number", order.OrderNumber, "payment_method", order.PaymentMethod)

	if order.PaymentMethod == models.PaymentCard {
		return c.Redirect(http.StatusSeeOther, "/payment/"+order.OrderNumber)
	}
	return c.Redirect(http.StatusSeeOther, h.successURL())
}

func (h *CheckoutHTTP) renderFormErrors(c echo.Context, id identity.Identity, form *service.CheckoutForm, fe service.FieldErrors, status int) error {
	cart, err := h.Cart.GetCart(c.Request().Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	body, err := h.Renderer.CheckoutPage(hypertext.CheckoutPageData{
		Cart: cart,
		Form: map[string]string{
			"first_name":   form.FirstName,
			"phone":        form.Phone,
			"email":        form.Email,
			"city":         form.City,
			"address_line": form.AddressLine,
			"company_name": form.CompanyName,
			"okpo":         form.OKPO,
		},
		Errors: fe,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(status, body)
}

func (h *CheckoutHTTP) publishOrder(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	key := identity.From(c).Key()
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *CheckoutHTTP) successURL() string {
	if h.SuccessURL == "" {
		return "/"
	}
	return h.SuccessURL
}

// MyOrders lists the authenticated caller's order history, newest first.
func (h *CheckoutHTTP) MyOrders(c echo.Context) error {
	id := identity.From(c)
	if !id.Authenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListOrders(c.Request().Context(), id.UserID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

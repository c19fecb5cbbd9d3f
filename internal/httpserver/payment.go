package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oreshnik/storefront/internal/hypertext"
	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/metrics"
	"github.com/oreshnik/storefront/internal/mykafka"
	"github.com/oreshnik/storefront/internal/service"
)

// PaymentHTTP serves the mock payment gateway pages.
type PaymentHTTP struct {
	Svc      *service.PaymentService
	Renderer *hypertext.Renderer
	Producer *mykafka.Producer

	SuccessURL string
}

func (h *PaymentHTTP) GetPayment(c echo.Context) error {
	order, err := h.Svc.GetOrder(c.Request().Context(), c.Param("order_number"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return internalError(c, err)
	}

	body, err := h.Renderer.PaymentPage(order)
	if err != nil {
		return internalError(c, err)
	}
	return c.HTML(http.StatusOK, body)
}

func (h *PaymentHTTP) PostPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm")

	order, err := h.Svc.Confirm(ctx, identity.From(c), c.Param("order_number"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("mock_payment_error", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return internalError(c, err)
	}
	metrics.PaymentsProcessedTotal.Inc()

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(pubCtx, "order_events", identity.From(c).Key(), map[string]any{
		"type":         "order_paid",
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount,
	}); err != nil {
		l.Error("kafka publish failed", "error", err)
	}

	return c.Redirect(http.StatusSeeOther, h.successURL())
}

func (h *PaymentHTTP) successURL() string {
	if h.SuccessURL == "" {
		return "/"
	}
	return h.SuccessURL
}

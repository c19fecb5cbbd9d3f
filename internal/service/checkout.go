package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
)

// CheckoutForm is the submitted checkout payload. Address requirements
// depend on the delivery method.
type CheckoutForm struct {
	FirstName   string `form:"first_name"`
	Phone       string `form:"phone"`
	Email       string `form:"email"`
	City        string `form:"city"`
	AddressLine string `form:"address_line"`
	CompanyName string `form:"company_name"`
	OKPO        string `form:"okpo"`

	DeliveryMethod string `form:"delivery_method"`
	PaymentMethod  string `form:"payment_method"`
}

// Validate checks the payload and normalizes it: pickup orders get their
// address fields blanked so a method without an address never stores one.
func (f *CheckoutForm) Validate() FieldErrors {
	fe := FieldErrors{}

	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(f.City)
	f.AddressLine = strings.TrimSpace(f.AddressLine)

	if f.FirstName == "" {
		fe["first_name"] = "Укажите контактное лицо."
	}
	if f.Phone == "" {
		fe["phone"] = "Укажите телефон."
	}
	if f.Email == "" || !strings.Contains(f.Email, "@") {
		fe["email"] = "Укажите корректный email."
	}

	switch f.DeliveryMethod {
	case models.DeliveryNovaPoshta:
		if f.City == "" {
			fe["city"] = "Укажите город для доставки Новой Почтой."
		}
		if f.AddressLine == "" {
			fe["address_line"] = "Укажите номер отделения Новой Почты."
		}
	case models.DeliveryCourier:
		if f.City == "" {
			fe["city"] = "Укажите город для курьерской доставки."
		}
		if f.AddressLine == "" {
			fe["address_line"] = "Укажите улицу, дом и квартиру."
		}
	case models.DeliveryPickup:
		f.City = ""
		f.AddressLine = ""
	default:
		fe["delivery_method"] = "Выберите способ доставки."
	}

	switch f.PaymentMethod {
	case models.PaymentInvoice, models.PaymentCard, models.PaymentCash:
	default:
		fe["payment_method"] = "Выберите способ оплаты."
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

type CheckoutService struct {
	Repo *repo.GormRepo
}

const orderNumberAttempts = 5

// PlaceOrder runs the checkout algorithm: reject an empty cart, validate
// the form, then atomically snapshot the cart into an order and clear it.
// An order-number collision retries the whole transaction with a fresh
// number instead of surfacing a spurious failure.
func (s *CheckoutService) PlaceOrder(ctx context.Context, id identity.Identity, form *CheckoutForm) (*models.Order, error) {
	l := logging.FromContext(ctx)

	cart, err := s.Repo.GetOrCreateCart(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded, err := s.Repo.CartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(loaded.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if fe := form.Validate(); fe != nil {
		l.Warn("checkout validation failed", "fields", fe)
		return nil, fe
	}

	order := &models.Order{
		DeliveryMethod: form.DeliveryMethod,
		PaymentMethod:  form.PaymentMethod,
		FirstName:      form.FirstName,
		Phone:          form.Phone,
		Email:          form.Email,
		City:           form.City,
		AddressLine:    form.AddressLine,
		CompanyName:    form.CompanyName,
		OKPO:           form.OKPO,
	}
	if id.Authenticated() {
		userID := id.UserID
		order.UserID = &userID
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber, err = generateOrderNumber()
		if err != nil {
			return nil, err
		}

		err = s.Repo.CreateOrderFromCart(ctx, cart.ID, order)
		if err == nil {
			l.Info("order created", "order_number", order.OrderNumber, "total", order.TotalAmount)
			return order, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("order number collision, retrying", "order_number", order.OrderNumber)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("order number space exhausted after %d attempts: %w", orderNumberAttempts, ErrConflict)
}

// ListOrders returns the user's order history, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, 50, 0)
}

// generateOrderNumber builds a human-shareable identifier with a 40-bit
// random suffix. Collisions are handled by the caller's retry loop.
func generateOrderNumber() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "ORD-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

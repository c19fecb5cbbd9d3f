package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/logging"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
)

// PaymentService is a stand-in for an external gateway callback. It trusts
// the POST unconditionally, which is acceptable only because it is a demo
// mock.
type PaymentService struct {
	Repo *repo.GormRepo
}

func (s *PaymentService) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.Repo.OrderByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

// Confirm transitions the order to processing and records a transaction
// row for authenticated callers, atomically.
func (s *PaymentService) Confirm(ctx context.Context, id identity.Identity, orderNumber string) (*models.Order, error) {
	var userID *uint
	if id.Authenticated() {
		uid := id.UserID
		userID = &uid
	}

	order, err := s.Repo.ProcessMockPayment(ctx, orderNumber, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("mock payment processed",
		"order_number", order.OrderNumber, "status", order.Status)
	return order, nil
}

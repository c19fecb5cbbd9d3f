package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart returns the caller's cart with items and products loaded,
// creating the cart lazily on first contact.
func (s *CartService) GetCart(ctx context.Context, id identity.Identity) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Repo.CartWithItems(ctx, cart.ID)
}

// AddToCart puts quantity units of a published product into the cart,
// merging into an existing line when one exists.
func (s *CartService) AddToCart(ctx context.Context, id identity.Identity, productID uint, quantity uint) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Repo.LiveProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddItem(ctx, cart.ID, product.ID, quantity); err != nil {
		return nil, err
	}
	return s.Repo.CartWithItems(ctx, cart.ID)
}

// ChangeQuantity applies increase/decrease to a line of the caller's own
// cart. A foreign item id fails with ErrNotFound and mutates nothing;
// ownership is a security boundary, not a soft filter.
func (s *CartService) ChangeQuantity(ctx context.Context, id identity.Identity, itemID uint, action string) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionIncrease:
		err = s.Repo.IncreaseItem(ctx, cart.ID, itemID)
	case ActionDecrease:
		err = s.Repo.DecreaseItem(ctx, cart.ID, itemID)
	default:
		return nil, fmt.Errorf("unknown action %q: %w", action, ErrValidation)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.CartWithItems(ctx, cart.ID)
}

// RemoveItem deletes a line from the caller's own cart under the same
// ownership rule as ChangeQuantity.
func (s *CartService) RemoveItem(ctx context.Context, id identity.Identity, itemID uint) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.CartWithItems(ctx, cart.ID)
}

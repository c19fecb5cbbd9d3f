package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/identity"
	"github.com/oreshnik/storefront/internal/models"
)

func cartScope(db *gorm.DB, id identity.Identity) *gorm.DB {
	if id.Authenticated() {
		return db.Where("user_id = ?", id.UserID)
	}
	return db.Where("session_key = ? AND user_id IS NULL", id.SessionKey)
}

// GetOrCreateCart resolves the single cart of an identity, creating it on
// first contact. A concurrent create racing on the unique index falls back
// to re-reading the winner's row.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, id identity.Identity) (*models.Cart, error) {
	db := r.DB.WithContext(ctx)

	var cart models.Cart
	err := cartScope(db, id).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{}
	if id.Authenticated() {
		userID := id.UserID
		cart.UserID = &userID
	} else {
		key := id.SessionKey
		cart.SessionKey = &key
	}

	if err := db.Create(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := cartScope(db, id).First(&cart).Error; err != nil {
				return nil, err
			}
			return &cart, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CartWithItems(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		First(&cart, cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem increments an existing line or inserts a new one. The increment is
// a single UPDATE so concurrent adds cannot lose each other's quantity.
func (r *GormRepo) AddItem(ctx context.Context, cartID, productID uint, quantity uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		item := models.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return tx.Model(&models.CartItem{}).
					Where("cart_id = ? AND product_id = ?", cartID, productID).
					Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
			}
			return err
		}
		return nil
	})
}

// IncreaseItem bumps the quantity by one. Returns gorm.ErrRecordNotFound
// when the item does not belong to the cart; ownership and existence are
// indistinguishable on purpose.
func (r *GormRepo) IncreaseItem(ctx context.Context, cartID, itemID uint) error {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", gorm.Expr("quantity + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecreaseItem lowers the quantity by one, deleting the line instead of
// ever persisting zero.
func (r *GormRepo) DecreaseItem(ctx context.Context, cartID, itemID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ? AND quantity > 1", itemID, cartID).
			Update("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		del := tx.Where("id = ? AND cart_id = ?", itemID, cartID).
			Delete(&models.CartItem{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

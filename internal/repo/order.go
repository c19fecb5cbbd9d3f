package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/models"
)

// CreateOrderFromCart snapshots the cart into an order inside one
// transaction: totals, order row, one OrderItem per line, cart cleared.
// A partial failure rolls everything back. A duplicate order number
// surfaces as gorm.ErrDuplicatedKey for the caller to retry with a fresh
// number.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, cartID uint, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return gorm.ErrRecordNotFound
		}

		var total int64
		var count uint
		for _, it := range items {
			total += it.Cost()
			count += it.Quantity
		}
		order.TotalAmount = total
		order.ItemsCount = count
		order.Status = models.OrderStatusNew

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, it := range items {
			productID := it.ProductID
			oi := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: it.Product.Title,
				Price:       it.Product.Price,
				Quantity:    it.Quantity,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, oi)
		}

		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) OrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

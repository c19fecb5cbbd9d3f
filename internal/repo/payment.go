package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/models"
)

// ProcessMockPayment moves the order to processing and, for authenticated
// callers, appends a transaction row. Both writes share one transaction.
func (r *GormRepo) ProcessMockPayment(ctx context.Context, orderNumber string, userID *uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			return err
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusProcessing).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusProcessing

		if userID != nil {
			trans := models.PaymentTransaction{
				UserID:      *userID,
				Amount:      order.TotalAmount,
				Description: fmt.Sprintf("Payment for order %s", order.OrderNumber),
			}
			if err := tx.Create(&trans).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/models"
)

// LiveProductByID returns the product only when it is published.
func (r *GormRepo) LiveProductByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Where("id = ? AND live = ?", productID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) LiveProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Tastes").
		Preload("Packaging").
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("slug = ? AND live = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListLiveProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.Product{}).Where("live = ?", true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := db.Order("id ASC").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
	"github.com/oreshnik/storefront/internal/util"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type ProductPage struct {
	Products []models.Product `json:"data"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Total    int64            `json:"total"`
}

func (s *CatalogService) ListProducts(ctx context.Context, page, size int) (*ProductPage, error) {
	offset, limit := util.Calculate(page, size)

	products, total, err := s.Repo.ListLiveProducts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products: products,
		Page:     page,
		Size:     limit,
		Total:    total,
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.Repo.LiveProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"trendora/storefront/internal/model"
)

type pgProductRepository struct {
	db *gorm.DB
}

func NewPGProductRepository(db *gorm.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *pgProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

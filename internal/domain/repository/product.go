package repository

import (
	"context"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// ProductRepository reads catalog entries and adjusts their stock.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
	// DecrementStock atomically applies Product.DecrementStock to the stored row.
	DecrementStock(ctx context.Context, id, color, size string, qty int) error
}

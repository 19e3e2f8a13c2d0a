package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
)

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT id, name, price::text, stock, color_size_stock FROM products WHERE id=$1`
	var (
		p      model.Product
		price  string
		matrix []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &price, &p.Stock, &matrix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("decode price: %w", err)
	}
	if p.ColorSizeStock, err = decodeMatrix(matrix); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id, color, size string, qty int) error {
	const (
		selectQuery = `SELECT stock, color_size_stock FROM products WHERE id=$1 FOR UPDATE`
		updateQuery = `UPDATE products SET stock=$2, color_size_stock=$3, updated_at=NOW() WHERE id=$1`
	)

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		p := model.Product{ID: id}
		var matrix []byte
		if err := tx.QueryRow(ctx, selectQuery, id).Scan(&p.Stock, &matrix); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		var err error
		if p.ColorSizeStock, err = decodeMatrix(matrix); err != nil {
			return err
		}

		if !p.DecrementStock(color, size, qty) {
			r.storage.logger.Warn("stock variant not tracked",
				slog.String("product", id), slog.String("color", color), slog.String("size", size))
			return nil
		}

		if matrix, err = encodeMatrix(p.ColorSizeStock); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, updateQuery, id, p.Stock, matrix)
		return err
	})
}

func decodeMatrix(raw []byte) (model.ColorSizeStock, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m model.ColorSizeStock
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode color size stock: %w", err)
	}
	return m, nil
}

func encodeMatrix(m model.ColorSizeStock) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode color size stock: %w", err)
	}
	return raw, nil
}

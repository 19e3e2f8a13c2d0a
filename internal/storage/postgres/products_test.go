package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
)

func TestProductRepositoryGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	columns := []string{"id", "name", "price", "stock", "color_size_stock"}
	mock.ExpectQuery("SELECT id, name, price::text, stock, color_size_stock FROM products").WithArgs("p1").WillReturnRows(
		pgxmockv3.NewRows(columns).AddRow("p1", "Shirt", "149.90", 4, []byte(`{"red":{"M":3,"L":0}}`)))

	product, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !product.Price.Equal(decimal.RequireFromString("149.9")) || product.Stock != 4 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.ColorSizeStock["red"]["M"] != 3 {
		t.Fatalf("unexpected matrix: %+v", product.ColorSizeStock)
	}

	mock.ExpectQuery("SELECT id, name, price::text").WithArgs("flat").WillReturnRows(
		pgxmockv3.NewRows(columns).AddRow("flat", "Hat", "20.00", 2, []byte(nil)))
	product, err = repo.GetByID(context.Background(), "flat")
	if err != nil || product.HasMatrix() {
		t.Fatalf("expected flat product: %+v err=%v", product, err)
	}

	mock.ExpectQuery("SELECT id, name, price::text").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, name, price::text").WithArgs("bad").WillReturnRows(
		pgxmockv3.NewRows(columns).AddRow("bad", "Hat", "20.00", 2, []byte("[")))
	if _, err := repo.GetByID(context.Background(), "bad"); err == nil {
		t.Fatal("expected matrix decode error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryDecrementStock(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}
	columns := []string{"stock", "color_size_stock"}

	t.Run("matrix cell", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock, color_size_stock FROM products WHERE id").WithArgs("p1").WillReturnRows(
			pgxmockv3.NewRows(columns).AddRow(9, []byte(`{"blue":{"M":5},"red":{"M":3}}`)))
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs("p1", 9, []byte(`{"blue":{"M":5},"red":{"M":2}}`)).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		if err := repo.DecrementStock(context.Background(), "p1", "red", "M", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("flat floor at zero", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock, color_size_stock FROM products WHERE id").WithArgs("p2").WillReturnRows(
			pgxmockv3.NewRows(columns).AddRow(1, []byte(nil)))
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs("p2", 0, pgxmockv3.AnyArg()).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		if err := repo.DecrementStock(context.Background(), "p2", "", "", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("untracked color is skipped", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock, color_size_stock FROM products WHERE id").WithArgs("p1").WillReturnRows(
			pgxmockv3.NewRows(columns).AddRow(9, []byte(`{"red":{"M":3}}`)))
		mock.ExpectCommit()

		if err := repo.DecrementStock(context.Background(), "p1", "green", "M", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock, color_size_stock FROM products WHERE id").WithArgs("gone").WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		if err := repo.DecrementStock(context.Background(), "gone", "", "", 1); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("update error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock, color_size_stock FROM products WHERE id").WithArgs("p2").WillReturnRows(
			pgxmockv3.NewRows(columns).AddRow(4, []byte(nil)))
		mock.ExpectExec("UPDATE products SET stock").WillReturnError(errors.New("update"))
		mock.ExpectRollback()

		if err := repo.DecrementStock(context.Background(), "p2", "", "", 1); err == nil {
			t.Fatal("expected update error")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

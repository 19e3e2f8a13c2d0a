package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
)

const orderColumns = `id::text, user_id, items, shipping_address, contact_info, payment_method,
                      total_price::text, shipping_cost::text, order_status, payment_status,
                      COALESCE(payment_id, ''), payment_details, COALESCE(payment_error, ''),
                      created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o                                 model.Order
		items, shipping, contact, details []byte
		totalPrice, shippingCost          string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &shipping, &contact, &o.PaymentMethod,
		&totalPrice, &shippingCost, &o.OrderStatus, &o.PaymentStatus,
		&o.PaymentID, &details, &o.PaymentError, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if o.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return nil, fmt.Errorf("decode total price: %w", err)
	}
	if o.ShippingCost, err = decimal.NewFromString(shippingCost); err != nil {
		return nil, fmt.Errorf("decode shipping cost: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if err := json.Unmarshal(contact, &o.ContactInfo); err != nil {
		return nil, fmt.Errorf("decode contact info: %w", err)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &o.PaymentDetails); err != nil {
			return nil, fmt.Errorf("decode payment details: %w", err)
		}
	}
	return &o, nil
}

func marshalDetails(details map[string]any) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	return json.Marshal(details)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, user_id, items, shipping_address, contact_info, payment_method,
                                       total_price, shipping_cost, order_status, payment_status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9, $10)
                   RETURNING created_at, updated_at`

	created := *order
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.OrderStatus == "" {
		created.OrderStatus = model.OrderStatusPending
	}
	if created.PaymentStatus == "" {
		created.PaymentStatus = model.PaymentStatusPending
	}

	items, err := json.Marshal(created.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	shipping, err := json.Marshal(created.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address: %w", err)
	}
	contact, err := json.Marshal(created.ContactInfo)
	if err != nil {
		return nil, fmt.Errorf("encode contact info: %w", err)
	}

	err = r.storage.pool.QueryRow(ctx, query, created.ID, created.UserID, items, shipping, contact,
		created.PaymentMethod, created.TotalPrice.StringFixed(2), created.ShippingCost.StringFixed(2),
		created.OrderStatus, created.PaymentStatus).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrNotFound
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id, paymentID string, details map[string]any) (bool, error) {
	const query = `UPDATE orders
                   SET payment_status='paid', order_status='processing', payment_id=$2,
                       payment_details=$3, payment_error=NULL, updated_at=NOW()
                   WHERE id=$1 AND payment_status <> 'paid'`

	payload, err := marshalDetails(details)
	if err != nil {
		return false, fmt.Errorf("encode payment details: %w", err)
	}
	tag, err := r.storage.pool.Exec(ctx, query, id, paymentID, payload)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, id, paymentID string, details map[string]any, reason string) (bool, error) {
	const query = `UPDATE orders
                   SET payment_status='failed', order_status='failed',
                       payment_id=COALESCE(NULLIF($2, ''), payment_id),
                       payment_details=$3, payment_error=$4, updated_at=NOW()
                   WHERE id=$1 AND payment_status <> 'paid'`

	payload, err := marshalDetails(details)
	if err != nil {
		return false, fmt.Errorf("encode payment details: %w", err)
	}
	tag, err := r.storage.pool.Exec(ctx, query, id, paymentID, payload, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE payment_status='pending' AND order_status='pending' AND created_at < $1
              ORDER BY created_at
              LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ExpirePending(ctx context.Context, id, reason string) (bool, error) {
	const query = `UPDATE orders
                   SET payment_status='failed', order_status='failed', payment_error=$2, updated_at=NOW()
                   WHERE id=$1 AND payment_status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

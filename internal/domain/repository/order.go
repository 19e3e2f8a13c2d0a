package repository

import (
	"context"
	"time"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// MarkPaid moves the order to paid/processing unless it is already paid.
	// It reports whether this call performed the transition.
	MarkPaid(ctx context.Context, id, paymentID string, details map[string]any) (bool, error)
	// MarkFailed moves the order to failed/failed unless it is already paid.
	MarkFailed(ctx context.Context, id, paymentID string, details map[string]any, reason string) (bool, error)
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
	// ExpirePending fails the order only while its payment is still pending.
	ExpirePending(ctx context.Context, id, reason string) (bool, error)
}

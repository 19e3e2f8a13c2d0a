package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
	"github.com/polkiloo/checkout/internal/domain/repository"
)

const msgSessionExpired = "payment session expired"

// OrderPayment is a customer's view of an order's payment.
type OrderPayment struct {
	Order   *model.Order
	Gateway *model.GatewayResult
}

// OrderUseCase encapsulates order lookups and expiry.
type OrderUseCase struct {
	orders  repository.OrderRepository
	gateway PaymentGateway
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, gateway PaymentGateway) *OrderUseCase {
	return &OrderUseCase{orders: orders, gateway: gateway, now: time.Now}
}

// PaymentStatus returns the user's order and, once a payment exists, the gateway's live view of it.
func (u *OrderUseCase) PaymentStatus(ctx context.Context, userID int64, orderID string) (*OrderPayment, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}

	view := &OrderPayment{Order: order}
	if order.PaymentID != "" {
		view.Gateway = u.gateway.RetrievePayment(ctx, order.PaymentID)
	}
	return view, nil
}

// StalePending returns unpaid orders created more than ttl ago.
func (u *OrderUseCase) StalePending(ctx context.Context, ttl time.Duration, limit int) ([]model.Order, error) {
	return u.orders.ListStalePending(ctx, u.now().Add(-ttl), limit)
}

// Expire fails an order whose payment never completed.
func (u *OrderUseCase) Expire(ctx context.Context, orderID string) (bool, error) {
	return u.orders.ExpirePending(ctx, orderID, msgSessionExpired)
}

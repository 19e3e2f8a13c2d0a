package app

import (
	"context"
	"time"

	"github.com/polkiloo/checkout/internal/domain/model"
	pkgAuth "github.com/polkiloo/checkout/internal/pkg/auth"
	"github.com/polkiloo/checkout/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckoutFacade is the single entry point used by transport and background workers.
type CheckoutFacade struct {
	sessions pkgAuth.Verifier
	payments *usecase.PaymentUseCase
	callback *usecase.CallbackUseCase
	orders   *usecase.OrderUseCase
	health   HealthChecker
}

func NewCheckoutFacade(
	sessions pkgAuth.Verifier,
	payments *usecase.PaymentUseCase,
	callback *usecase.CallbackUseCase,
	orders *usecase.OrderUseCase,
	health HealthChecker,
) *CheckoutFacade {
	return &CheckoutFacade{sessions: sessions, payments: payments, callback: callback, orders: orders, health: health}
}

func (f *CheckoutFacade) VerifySession(token string) (*pkgAuth.Session, error) {
	return f.sessions.Verify(token)
}

func (f *CheckoutFacade) InitializePayment(ctx context.Context, in usecase.InitializeInput) (*usecase.InitializeResult, error) {
	return f.payments.Initialize(ctx, in)
}

func (f *CheckoutFacade) HandleCallback(ctx context.Context, in usecase.CallbackInput) (*usecase.CallbackResult, error) {
	return f.callback.Reconcile(ctx, in)
}

func (f *CheckoutFacade) OrderPayment(ctx context.Context, userID int64, orderID string) (*usecase.OrderPayment, error) {
	return f.orders.PaymentStatus(ctx, userID, orderID)
}

func (f *CheckoutFacade) StalePendingOrders(ctx context.Context, ttl time.Duration, limit int) ([]model.Order, error) {
	return f.orders.StalePending(ctx, ttl, limit)
}

func (f *CheckoutFacade) ExpireOrder(ctx context.Context, orderID string) (bool, error) {
	return f.orders.Expire(ctx, orderID)
}

func (f *CheckoutFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

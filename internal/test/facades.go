package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/checkout/internal/domain/model"
	pkgAuth "github.com/polkiloo/checkout/internal/pkg/auth"
	"github.com/polkiloo/checkout/internal/usecase"
)

// VerifierStub accepts tokens via function override.
type VerifierStub struct {
	VerifyFn func(string) (*pkgAuth.Session, error)
}

// Verify returns the configured session or user 1.
func (s VerifierStub) Verify(token string) (*pkgAuth.Session, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(token)
	}
	return &pkgAuth.Session{UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// CheckoutFacadeStub provides controllable behaviour for payment endpoints.
type CheckoutFacadeStub struct {
	VerifierStub
	InitializeFn   func(context.Context, usecase.InitializeInput) (*usecase.InitializeResult, error)
	CallbackFn     func(context.Context, usecase.CallbackInput) (*usecase.CallbackResult, error)
	OrderPaymentFn func(context.Context, int64, string) (*usecase.OrderPayment, error)
	HealthFn       func(context.Context) error
}

// VerifySession delegates to the embedded verifier.
func (s CheckoutFacadeStub) VerifySession(token string) (*pkgAuth.Session, error) {
	return s.Verify(token)
}

// InitializePayment delegates to provided function or returns a challenge page.
func (s CheckoutFacadeStub) InitializePayment(ctx context.Context, in usecase.InitializeInput) (*usecase.InitializeResult, error) {
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, in)
	}
	return &usecase.InitializeResult{OrderID: "order-1", ThreeDSHTMLContent: "<html>3ds</html>"}, nil
}

// HandleCallback delegates to provided function or reports a paid order.
func (s CheckoutFacadeStub) HandleCallback(ctx context.Context, in usecase.CallbackInput) (*usecase.CallbackResult, error) {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, in)
	}
	return &usecase.CallbackResult{Outcome: usecase.OutcomePaid, OrderID: in.ConversationID}, nil
}

// OrderPayment delegates to provided function or returns a pending order.
func (s CheckoutFacadeStub) OrderPayment(ctx context.Context, userID int64, orderID string) (*usecase.OrderPayment, error) {
	if s.OrderPaymentFn != nil {
		return s.OrderPaymentFn(ctx, userID, orderID)
	}
	return &usecase.OrderPayment{Order: &model.Order{
		ID:            orderID,
		UserID:        userID,
		OrderStatus:   model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}}, nil
}

// HealthCheck reports healthy unless overridden.
func (s CheckoutFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// SweeperFacadeStub mimics sweeper interactions with the checkout facade.
type SweeperFacadeStub struct {
	mu       sync.Mutex
	Batches  [][]model.Order
	StaleFn  func(context.Context, time.Duration, int) ([]model.Order, error)
	ExpireFn func(context.Context, string) (bool, error)
	Expired  []string
	calls    int
}

// StalePendingOrders returns batches from configured queue.
func (s *SweeperFacadeStub) StalePendingOrders(ctx context.Context, ttl time.Duration, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, ttl, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= len(s.Batches) {
		return s.Batches[s.calls-1], nil
	}
	return nil, nil
}

// ExpireOrder records expired orders.
func (s *SweeperFacadeStub) ExpireOrder(ctx context.Context, orderID string) (bool, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Expired = append(s.Expired, orderID)
	return true, nil
}

// ExpiredOrders returns a snapshot of expired order IDs.
func (s *SweeperFacadeStub) ExpiredOrders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Expired...)
}

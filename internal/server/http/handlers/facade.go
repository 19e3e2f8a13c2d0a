package handlers

import (
	"context"

	"github.com/polkiloo/checkout/internal/server/http/middleware"
	"github.com/polkiloo/checkout/internal/usecase"
)

// PaymentFacade starts payments.
type PaymentFacade interface {
	InitializePayment(ctx context.Context, in usecase.InitializeInput) (*usecase.InitializeResult, error)
}

// CallbackFacade reconciles gateway callbacks.
type CallbackFacade interface {
	HandleCallback(ctx context.Context, in usecase.CallbackInput) (*usecase.CallbackResult, error)
}

// OrderFacade exposes order payment lookups.
type OrderFacade interface {
	OrderPayment(ctx context.Context, userID int64, orderID string) (*usecase.OrderPayment, error)
}

// HealthFacade reports service health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	middleware.SessionVerifier
	PaymentFacade
	CallbackFacade
	OrderFacade
	HealthFacade
}

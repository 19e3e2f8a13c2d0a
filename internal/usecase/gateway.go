package usecase

import (
	"context"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// PaymentGateway is the subset of the payment provider used by checkout flows.
type PaymentGateway interface {
	InitializeThreeDS(ctx context.Context, req *model.PaymentRequest) *model.GatewayResult
	AuthThreeDS(ctx context.Context, paymentID, conversationID string) *model.GatewayResult
	RetrievePayment(ctx context.Context, paymentID string) *model.GatewayResult
}

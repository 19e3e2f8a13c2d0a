package test

import (
	"context"
	"sync"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// GatewayStub answers gateway calls with configurable results.
type GatewayStub struct {
	mu           sync.Mutex
	InitializeFn func(context.Context, *model.PaymentRequest) *model.GatewayResult
	AuthFn       func(context.Context, string, string) *model.GatewayResult
	RetrieveFn   func(context.Context, string) *model.GatewayResult
	Requests     []*model.PaymentRequest
	AuthCalls    int
}

// InitializeThreeDS records the request and returns a challenge page by default.
func (g *GatewayStub) InitializeThreeDS(ctx context.Context, req *model.PaymentRequest) *model.GatewayResult {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	g.mu.Unlock()
	if g.InitializeFn != nil {
		return g.InitializeFn(ctx, req)
	}
	return &model.GatewayResult{
		Status:             model.GatewayStatusSuccess,
		ConversationID:     req.ConversationID,
		ThreeDSHTMLContent: "<html>3ds</html>",
	}
}

// AuthThreeDS succeeds by default.
func (g *GatewayStub) AuthThreeDS(ctx context.Context, paymentID, conversationID string) *model.GatewayResult {
	g.mu.Lock()
	g.AuthCalls++
	g.mu.Unlock()
	if g.AuthFn != nil {
		return g.AuthFn(ctx, paymentID, conversationID)
	}
	return &model.GatewayResult{
		Status:         model.GatewayStatusSuccess,
		PaymentID:      paymentID,
		ConversationID: conversationID,
		Raw:            map[string]any{"status": "success", "paymentId": paymentID},
	}
}

// RetrievePayment succeeds by default.
func (g *GatewayStub) RetrievePayment(ctx context.Context, paymentID string) *model.GatewayResult {
	if g.RetrieveFn != nil {
		return g.RetrieveFn(ctx, paymentID)
	}
	return &model.GatewayResult{Status: model.GatewayStatusSuccess, PaymentID: paymentID}
}

// AuthCallCount returns how many auth calls were made.
func (g *GatewayStub) AuthCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.AuthCalls
}

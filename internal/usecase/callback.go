package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
	"github.com/polkiloo/checkout/internal/domain/repository"
)

// Outcome classifies how a gateway callback was resolved.
type Outcome int

const (
	OutcomeMissingOrderID Outcome = iota + 1
	OutcomeOrderNotFound
	OutcomeAuthFailed
	OutcomePaid
	OutcomePaymentFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissingOrderID:
		return "missing_order_id"
	case OutcomeOrderNotFound:
		return "order_not_found"
	case OutcomeAuthFailed:
		return "auth_failed"
	case OutcomePaid:
		return "paid"
	case OutcomePaymentFailed:
		return "payment_failed"
	default:
		return "unknown"
	}
}

const (
	mdStatusVerified   = "1"
	msgAuthFailed      = "3-D Secure authentication failed"
	msgApprovalMissing = "3-D Secure approval was not obtained"
)

// CallbackInput is the gateway's post-challenge notification.
type CallbackInput struct {
	PaymentID      string
	Status         string
	ConversationID string
	MDStatus       string
	ErrorMessage   string
	Raw            map[string]any
}

// CallbackResult tells the caller where the browser should go next.
type CallbackResult struct {
	Outcome Outcome
	OrderID string
}

// CallbackUseCase reconciles orders and inventory with the gateway's verdict.
type CallbackUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	gateway  PaymentGateway
	logger   *slog.Logger
}

// NewCallbackUseCase constructs CallbackUseCase.
func NewCallbackUseCase(orders repository.OrderRepository, products repository.ProductRepository, gateway PaymentGateway, logger *slog.Logger) *CallbackUseCase {
	return &CallbackUseCase{orders: orders, products: products, gateway: gateway, logger: logger}
}

// Reconcile applies a callback. A paid order is never touched again and stock
// is decremented only by the caller that performed the paid transition.
func (u *CallbackUseCase) Reconcile(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	if in.ConversationID == "" {
		return &CallbackResult{Outcome: OutcomeMissingOrderID}, nil
	}

	order, err := u.orders.GetByID(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &CallbackResult{Outcome: OutcomeOrderNotFound}, nil
		}
		return nil, err
	}
	res := &CallbackResult{OrderID: order.ID}

	if order.Paid() {
		u.logger.Info("callback for paid order ignored", slog.String("order", order.ID), slog.String("status", in.Status))
		res.Outcome = OutcomePaid
		return res, nil
	}

	if in.Status != model.GatewayStatusSuccess || in.MDStatus != mdStatusVerified {
		msg := in.ErrorMessage
		if msg == "" {
			msg = msgApprovalMissing
		}
		if _, err := u.orders.MarkFailed(ctx, order.ID, in.PaymentID, in.Raw, msg); err != nil {
			return nil, err
		}
		u.logger.Warn("3ds challenge not approved",
			slog.String("order", order.ID), slog.String("status", in.Status), slog.String("mdStatus", in.MDStatus))
		res.Outcome = OutcomePaymentFailed
		return res, nil
	}

	auth := u.gateway.AuthThreeDS(ctx, in.PaymentID, order.ID)
	if !auth.Succeeded() {
		msg := auth.ErrorMessage
		if msg == "" {
			msg = msgAuthFailed
		}
		if _, err := u.orders.MarkFailed(ctx, order.ID, in.PaymentID, auth.Snapshot(), msg); err != nil {
			return nil, err
		}
		u.logger.Warn("3ds auth rejected", slog.String("order", order.ID), slog.String("message", msg))
		res.Outcome = OutcomeAuthFailed
		return res, nil
	}

	paymentID := auth.PaymentID
	if paymentID == "" {
		paymentID = in.PaymentID
	}
	applied, err := u.orders.MarkPaid(ctx, order.ID, paymentID, auth.Snapshot())
	if err != nil {
		return nil, err
	}
	if applied {
		u.decrementStock(ctx, order)
		u.logger.Info("order paid", slog.String("order", order.ID), slog.String("payment", paymentID))
	}

	res.Outcome = OutcomePaid
	return res, nil
}

// decrementStock is best effort: a failing line is logged and the rest still apply.
func (u *CallbackUseCase) decrementStock(ctx context.Context, order *model.Order) {
	for _, item := range order.Items {
		err := u.products.DecrementStock(ctx, item.ProductID, item.Color, item.Size, item.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, domainErrors.ErrNotFound):
			u.logger.Warn("paid product no longer in catalog",
				slog.String("order", order.ID), slog.String("product", item.ProductID))
		default:
			u.logger.Error("stock decrement failed",
				slog.String("order", order.ID), slog.String("product", item.ProductID), slog.String("error", err.Error()))
		}
	}
}

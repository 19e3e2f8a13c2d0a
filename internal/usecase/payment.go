package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/checkout/internal/config"
	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/domain/model"
	"github.com/polkiloo/checkout/internal/domain/repository"
)

const (
	CallbackPath = "/api/payment/callback"

	basketCategory       = "Clothing"
	shippingLineID       = "SHIPPING_FEE"
	shippingLineName     = "Shipping Fee"
	shippingLineCategory = "Logistics"

	msgInitializeFailed = "payment could not be initialized"
	msgMissingHTML      = "payment gateway did not return a 3-D Secure page"
)

// CartItem is a basket line as submitted by the storefront.
type CartItem struct {
	ProductID string
	Name      string
	Image     string
	Quantity  int
	Size      string
	Color     string
}

// InitializeInput carries everything needed to start a 3-D Secure checkout.
type InitializeInput struct {
	UserID          int64
	IdentityNumber  string
	Items           []CartItem
	ShippingAddress model.ShippingAddress
	ContactInfo     model.ContactInfo
	Card            model.Card
	ShippingCost    decimal.Decimal
	ClientIP        string
}

// InitializeResult is returned when the gateway produced a challenge page.
type InitializeResult struct {
	OrderID            string
	TotalPrice         decimal.Decimal
	ThreeDSHTMLContent string
}

// PaymentUseCase starts card payments.
type PaymentUseCase struct {
	products    repository.ProductRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	gateway     PaymentGateway
	callbackURL string
	logger      *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	gateway PaymentGateway,
	cfg *config.Config,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		products:    products,
		orders:      orders,
		users:       users,
		gateway:     gateway,
		callbackURL: strings.TrimRight(cfg.BackendURL, "/") + CallbackPath,
		logger:      logger,
	}
}

// Initialize validates the basket against live stock, persists a pending order
// and asks the gateway for a 3-D Secure challenge page.
func (u *PaymentUseCase) Initialize(ctx context.Context, in InitializeInput) (*InitializeResult, error) {
	if in.UserID <= 0 {
		return nil, domainErrors.ErrUnauthorized
	}
	if strings.TrimSpace(in.IdentityNumber) == "" {
		return nil, fmt.Errorf("%w: identity number is required", domainErrors.ErrInvalidIdentityNumber)
	}
	if err := ValidateIdentityNumber(in.IdentityNumber); err != nil {
		return nil, err
	}
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	basket, items, err := u.priceBasket(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if in.ShippingCost.IsPositive() {
		basket = append(basket, model.BasketItem{
			ID:        shippingLineID,
			Name:      shippingLineName,
			Category1: shippingLineCategory,
			ItemType:  model.BasketItemVirtual,
			Price:     in.ShippingCost.Round(2),
		})
	}

	total := decimal.Zero
	for _, line := range basket {
		total = total.Add(line.Price)
	}

	if err := u.users.UpdateIdentityNumber(ctx, in.UserID, in.IdentityNumber); err != nil {
		return nil, fmt.Errorf("update identity number: %w", err)
	}

	order, err := u.orders.Create(ctx, &model.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		ContactInfo:     in.ContactInfo,
		PaymentMethod:   model.PaymentMethodCreditCard,
		TotalPrice:      total,
		ShippingCost:    in.ShippingCost.Round(2),
		OrderStatus:     model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	result := u.gateway.InitializeThreeDS(ctx, u.paymentRequest(order, in, basket))
	if result.Succeeded() {
		if result.ThreeDSHTMLContent == "" {
			return nil, &domainErrors.GatewayError{Message: msgMissingHTML, Details: result.Snapshot()}
		}
		u.logger.Info("3ds payment initialized",
			slog.String("order", order.ID), slog.Int64("user", in.UserID), slog.String("total", total.StringFixed(2)))
		return &InitializeResult{OrderID: order.ID, TotalPrice: total, ThreeDSHTMLContent: result.ThreeDSHTMLContent}, nil
	}

	msg := result.ErrorMessage
	if msg == "" {
		msg = msgInitializeFailed
	}
	if _, err := u.orders.MarkFailed(ctx, order.ID, result.PaymentID, result.Snapshot(), msg); err != nil {
		u.logger.Error("failed to mark order as failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}
	u.logger.Warn("3ds initialization rejected",
		slog.String("order", order.ID), slog.String("code", result.ErrorCode), slog.String("message", msg))
	return nil, &domainErrors.GatewayError{Message: msg, Details: result.Snapshot()}
}

func validateCheckout(in InitializeInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: basket is empty", domainErrors.ErrInvalidRequest)
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: product id is required", domainErrors.ErrInvalidRequest)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for %s", domainErrors.ErrInvalidRequest, item.ProductID)
		}
	}
	if in.ShippingCost.IsNegative() {
		return fmt.Errorf("%w: shipping cost cannot be negative", domainErrors.ErrInvalidRequest)
	}
	if NormalizeCardNumber(in.Card.CardNumber) == "" || in.Card.CVC == "" ||
		in.Card.ExpireMonth == "" || in.Card.ExpireYear == "" {
		return fmt.Errorf("%w: card details are incomplete", domainErrors.ErrInvalidRequest)
	}
	return nil
}

// priceBasket checks availability and prices every line from the catalog.
func (u *PaymentUseCase) priceBasket(ctx context.Context, cart []CartItem) ([]model.BasketItem, []model.OrderItem, error) {
	basket := make([]model.BasketItem, 0, len(cart)+1)
	items := make([]model.OrderItem, 0, len(cart))

	for i, item := range cart {
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrProductNotFound, item.ProductID)
			}
			return nil, nil, fmt.Errorf("load product %s: %w", item.ProductID, err)
		}

		if product.Available(item.Color, item.Size) < item.Quantity {
			if item.Color != "" && item.Size != "" && product.HasMatrix() {
				return nil, nil, fmt.Errorf("%w: %s (%s, %s)", domainErrors.ErrInsufficientStock, product.Name, item.Color, item.Size)
			}
			return nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrInsufficientStock, product.Name)
		}

		basket = append(basket, model.BasketItem{
			ID:        fmt.Sprintf("%s_%d", product.ID, i),
			Name:      lineName(product.Name, item.Color, item.Size),
			Category1: basketCategory,
			ItemType:  model.BasketItemPhysical,
			Price:     product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		})
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     item.Image,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return basket, items, nil
}

func lineName(name, color, size string) string {
	switch {
	case color == "":
		return name
	case size == "":
		return fmt.Sprintf("%s (%s)", name, color)
	default:
		return fmt.Sprintf("%s (%s, %s)", name, color, size)
	}
}

func (u *PaymentUseCase) paymentRequest(order *model.Order, in InitializeInput, basket []model.BasketItem) *model.PaymentRequest {
	name, surname := SplitBuyerName(in.ShippingAddress.Name)
	city := orDefault(in.ShippingAddress.City, DefaultCity)
	country := orDefault(in.ShippingAddress.Country, DefaultCountry)
	zip := orDefault(in.ShippingAddress.PostalCode, DefaultZipCode)
	street := orDefault(in.ShippingAddress.Address, DefaultCity)
	ip := in.ClientIP
	if ip == "" {
		ip = DefaultClientIP
	}

	address := &model.Address{
		Address:     street,
		ZipCode:     zip,
		ContactName: strings.TrimSpace(in.ShippingAddress.Name),
		City:        city,
		Country:     country,
	}

	return &model.PaymentRequest{
		ConversationID: order.ID,
		Price:          order.TotalPrice,
		PaidPrice:      order.TotalPrice,
		BasketID:       order.ID,
		PaymentCard: &model.Card{
			CardHolderName: strings.TrimSpace(in.Card.CardHolderName),
			CardNumber:     NormalizeCardNumber(in.Card.CardNumber),
			ExpireYear:     NormalizeExpireYear(in.Card.ExpireYear),
			ExpireMonth:    strings.TrimSpace(in.Card.ExpireMonth),
			CVC:            strings.TrimSpace(in.Card.CVC),
		},
		Buyer: &model.Buyer{
			ID:                  strconv.FormatInt(in.UserID, 10),
			Name:                name,
			Surname:             surname,
			IdentityNumber:      in.IdentityNumber,
			Email:               in.ContactInfo.Email,
			GSMNumber:           NormalizePhone(in.ContactInfo.Phone),
			RegistrationAddress: street,
			City:                city,
			Country:             country,
			ZipCode:             zip,
			IP:                  ip,
		},
		ShippingAddress: address,
		BillingAddress:  address,
		BasketItems:     basket,
		CallbackURL:     u.callbackURL,
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// CartItem is a basket line posted by the storefront.
type CartItem struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
}

// PaymentCard carries card data for a single gateway call.
type PaymentCard struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
}

// InitializePaymentRequest is the checkout payload.
// TotalPrice is accepted for compatibility and ignored.
type InitializePaymentRequest struct {
	Items           []CartItem            `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	ContactInfo     model.ContactInfo     `json:"contactInfo"`
	PaymentCard     PaymentCard           `json:"paymentCard"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
	ShippingCost    decimal.Decimal       `json:"shippingCost"`
	IdentityNumber  string                `json:"identityNumber"`
}

// InitializePaymentResponse carries the challenge page the browser renders.
type InitializePaymentResponse struct {
	Success            bool   `json:"success"`
	OrderID            string `json:"orderId"`
	ThreeDSHTMLContent string `json:"threeDSHtmlContent"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// GatewayPayment is the gateway's live view of a payment.
type GatewayPayment struct {
	Status       string         `json:"status"`
	ErrorCode    string         `json:"errorCode,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Raw          map[string]any `json:"raw,omitempty"`
}

// OrderPaymentResponse describes an order's payment state.
type OrderPaymentResponse struct {
	OrderID       string            `json:"orderId"`
	OrderStatus   string            `json:"orderStatus"`
	PaymentStatus string            `json:"paymentStatus"`
	TotalPrice    string            `json:"totalPrice"`
	ShippingCost  string            `json:"shippingCost"`
	PaymentID     string            `json:"paymentId,omitempty"`
	PaymentError  string            `json:"paymentError,omitempty"`
	Items         []model.OrderItem `json:"items"`
	CreatedAt     time.Time         `json:"createdAt"`
	Gateway       *GatewayPayment   `json:"gateway,omitempty"`
}

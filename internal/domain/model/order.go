package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusFailed     OrderStatus = "failed"
)

// PaymentStatus describes payment lifecycle. Paid is terminal.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

const PaymentMethodCreditCard = "credit-card"

// OrderItem is a snapshot of a purchased product line.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// ContactInfo holds buyer contact details.
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is a checkout attempt and, once paid, a purchase.
type Order struct {
	ID              string
	UserID          int64
	Items           []OrderItem
	ShippingAddress ShippingAddress
	ContactInfo     ContactInfo
	PaymentMethod   string
	TotalPrice      decimal.Decimal
	ShippingCost    decimal.Decimal
	OrderStatus     OrderStatus
	PaymentStatus   PaymentStatus
	PaymentID       string
	PaymentDetails  map[string]any
	PaymentError    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Paid reports whether the payment reached its terminal success state.
func (o *Order) Paid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

package model

import "github.com/shopspring/decimal"

const (
	GatewayStatusSuccess = "success"
	GatewayStatusFailure = "failure"
)

// BasketItemType classifies a basket line for the gateway.
type BasketItemType string

const (
	BasketItemPhysical BasketItemType = "PHYSICAL"
	BasketItemVirtual  BasketItemType = "VIRTUAL"
)

// Address is a billing or shipping address sent to the gateway.
type Address struct {
	Address     string
	ZipCode     string
	ContactName string
	City        string
	Country     string
}

// Buyer identifies the paying customer.
type Buyer struct {
	ID                  string
	Name                string
	Surname             string
	IdentityNumber      string
	Email               string
	GSMNumber           string
	RegistrationDate    string
	LastLoginDate       string
	RegistrationAddress string
	City                string
	Country             string
	ZipCode             string
	IP                  string
}

// Card carries raw card data; it is never persisted.
type Card struct {
	CardHolderName string
	CardNumber     string
	ExpireYear     string
	ExpireMonth    string
	CVC            string
	RegisterCard   int
}

// BasketItem is an ephemeral line of the gateway basket.
type BasketItem struct {
	ID               string
	Name             string
	Category1        string
	Category2        string
	ItemType         BasketItemType
	Price            decimal.Decimal
	SubMerchantKey   string
	SubMerchantPrice *decimal.Decimal
	WithholdingTax   *decimal.Decimal
}

// PaymentRequest is a 3-D Secure initialization request.
type PaymentRequest struct {
	Locale          string
	ConversationID  string
	Price           decimal.Decimal
	PaidPrice       decimal.Decimal
	Installment     string
	PaymentChannel  string
	PaymentGroup    string
	BasketID        string
	PaymentCard     *Card
	Buyer           *Buyer
	ShippingAddress *Address
	BillingAddress  *Address
	BasketItems     []BasketItem
	Currency        string
	CallbackURL     string
}

// GatewayResult is the normalized outcome of any gateway call.
type GatewayResult struct {
	Status             string
	ErrorCode          string
	ErrorMessage       string
	PaymentID          string
	ConversationID     string
	ThreeDSHTMLContent string
	Raw                map[string]any
}

// Succeeded reports whether the gateway accepted the call.
func (r *GatewayResult) Succeeded() bool {
	return r != nil && r.Status == GatewayStatusSuccess
}

// Snapshot returns the raw response for storage, falling back to the typed fields.
func (r *GatewayResult) Snapshot() map[string]any {
	if r == nil {
		return nil
	}
	if len(r.Raw) > 0 {
		return r.Raw
	}
	out := map[string]any{"status": r.Status}
	if r.ErrorCode != "" {
		out["errorCode"] = r.ErrorCode
	}
	if r.ErrorMessage != "" {
		out["errorMessage"] = r.ErrorMessage
	}
	if r.PaymentID != "" {
		out["paymentId"] = r.PaymentID
	}
	if r.ConversationID != "" {
		out["conversationId"] = r.ConversationID
	}
	return out
}

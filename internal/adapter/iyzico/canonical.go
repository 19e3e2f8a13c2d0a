package iyzico

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/checkout/internal/domain/model"
)

// The gateway recomputes the signature over the exact body it receives, so
// every payload below is a fixed-order struct and never a map.

const (
	defaultLocale         = "tr"
	defaultInstallment    = "1"
	defaultPaymentChannel = "WEB"
	defaultCurrency       = "TRY"
	loopbackIPv6          = "::1"
	loopbackIPv4          = "127.0.0.1"
)

type addressPayload struct {
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type buyerPayload struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	IdentityNumber      string `json:"identityNumber"`
	Email               string `json:"email"`
	GSMNumber           string `json:"gsmNumber"`
	RegistrationDate    string `json:"registrationDate,omitempty"`
	LastLoginDate       string `json:"lastLoginDate,omitempty"`
	RegistrationAddress string `json:"registrationAddress"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode"`
	IP                  string `json:"ip"`
}

type cardPayload struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireYear     string `json:"expireYear"`
	ExpireMonth    string `json:"expireMonth"`
	CVC            string `json:"cvc"`
	RegisterCard   int    `json:"registerCard"`
}

type basketItemPayload struct {
	ID               string `json:"id"`
	Price            string `json:"price"`
	Name             string `json:"name"`
	Category1        string `json:"category1"`
	Category2        string `json:"category2,omitempty"`
	ItemType         string `json:"itemType"`
	SubMerchantKey   string `json:"subMerchantKey,omitempty"`
	SubMerchantPrice string `json:"subMerchantPrice,omitempty"`
	WithholdingTax   string `json:"withholdingTax,omitempty"`
}

type paymentPayload struct {
	Locale          string              `json:"locale"`
	ConversationID  string              `json:"conversationId"`
	Price           string              `json:"price"`
	PaidPrice       string              `json:"paidPrice"`
	Installment     string              `json:"installment"`
	PaymentChannel  string              `json:"paymentChannel"`
	BasketID        string              `json:"basketId"`
	PaymentCard     *cardPayload        `json:"paymentCard,omitempty"`
	Buyer           *buyerPayload       `json:"buyer,omitempty"`
	ShippingAddress *addressPayload     `json:"shippingAddress,omitempty"`
	BillingAddress  *addressPayload     `json:"billingAddress,omitempty"`
	BasketItems     []basketItemPayload `json:"basketItems"`
	Currency        string              `json:"currency"`
	CallbackURL     string              `json:"callbackUrl"`
	PaymentGroup    string              `json:"paymentGroup,omitempty"`
}

type authPayload struct {
	Locale         string `json:"locale"`
	ConversationID string `json:"conversationId"`
	PaymentID      string `json:"paymentId"`
}

type detailPayload struct {
	Locale    string `json:"locale"`
	PaymentID string `json:"paymentId"`
}

// FormatPrice renders money the way the gateway expects: the shortest
// decimal form with at least one fractional digit.
func FormatPrice(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatOptionalPrice(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return FormatPrice(*d)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func canonicalAddress(a *model.Address) *addressPayload {
	if a == nil {
		return nil
	}
	return &addressPayload{
		Address:     a.Address,
		ZipCode:     a.ZipCode,
		ContactName: a.ContactName,
		City:        a.City,
		Country:     a.Country,
	}
}

func canonicalBuyer(b *model.Buyer) *buyerPayload {
	if b == nil {
		return nil
	}
	ip := b.IP
	if ip == loopbackIPv6 {
		ip = loopbackIPv4
	}
	return &buyerPayload{
		ID:                  b.ID,
		Name:                b.Name,
		Surname:             b.Surname,
		IdentityNumber:      b.IdentityNumber,
		Email:               b.Email,
		GSMNumber:           b.GSMNumber,
		RegistrationDate:    b.RegistrationDate,
		LastLoginDate:       b.LastLoginDate,
		RegistrationAddress: b.RegistrationAddress,
		City:                b.City,
		Country:             b.Country,
		ZipCode:             b.ZipCode,
		IP:                  ip,
	}
}

func canonicalCard(c *model.Card) *cardPayload {
	if c == nil {
		return nil
	}
	return &cardPayload{
		CardHolderName: c.CardHolderName,
		CardNumber:     c.CardNumber,
		ExpireYear:     c.ExpireYear,
		ExpireMonth:    c.ExpireMonth,
		CVC:            c.CVC,
		RegisterCard:   c.RegisterCard,
	}
}

func canonicalBasket(items []model.BasketItem) []basketItemPayload {
	out := make([]basketItemPayload, 0, len(items))
	for _, it := range items {
		out = append(out, basketItemPayload{
			ID:               it.ID,
			Price:            FormatPrice(it.Price),
			Name:             it.Name,
			Category1:        it.Category1,
			Category2:        it.Category2,
			ItemType:         string(it.ItemType),
			SubMerchantKey:   it.SubMerchantKey,
			SubMerchantPrice: formatOptionalPrice(it.SubMerchantPrice),
			WithholdingTax:   formatOptionalPrice(it.WithholdingTax),
		})
	}
	return out
}

func canonicalPayment(req *model.PaymentRequest) paymentPayload {
	return paymentPayload{
		Locale:          orDefault(req.Locale, defaultLocale),
		ConversationID:  req.ConversationID,
		Price:           FormatPrice(req.Price),
		PaidPrice:       FormatPrice(req.PaidPrice),
		Installment:     orDefault(req.Installment, defaultInstallment),
		PaymentChannel:  orDefault(req.PaymentChannel, defaultPaymentChannel),
		BasketID:        req.BasketID,
		PaymentCard:     canonicalCard(req.PaymentCard),
		Buyer:           canonicalBuyer(req.Buyer),
		ShippingAddress: canonicalAddress(req.ShippingAddress),
		BillingAddress:  canonicalAddress(req.BillingAddress),
		BasketItems:     canonicalBasket(req.BasketItems),
		Currency:        orDefault(req.Currency, defaultCurrency),
		CallbackURL:     req.CallbackURL,
		PaymentGroup:    req.PaymentGroup,
	}
}

// CanonicalPaymentBody returns the exact bytes sent and signed for a 3-D Secure initialization.
func CanonicalPaymentBody(req *model.PaymentRequest) ([]byte, error) {
	return marshalCanonical(canonicalPayment(req))
}

func marshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// maskedForAudit hides card data before a payload reaches the audit log.
func maskedForAudit(p paymentPayload) paymentPayload {
	if p.PaymentCard == nil {
		return p
	}
	card := *p.PaymentCard
	if n := len(card.CardNumber); n > 4 {
		card.CardNumber = strings.Repeat("*", n-4) + card.CardNumber[n-4:]
	}
	card.CVC = "***"
	p.PaymentCard = &card
	return p
}

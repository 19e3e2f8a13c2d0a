package iyzico

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/checkout/internal/domain/model"
)

func samplePaymentRequest() *model.PaymentRequest {
	shipping := &model.Address{Address: "Bagdat Cd. 1 <B>", ZipCode: "34000", ContactName: "Ada Lovelace", City: "Istanbul", Country: "Türkiye"}
	return &model.PaymentRequest{
		ConversationID: "c-1",
		Price:          decimal.RequireFromString("150"),
		PaidPrice:      decimal.RequireFromString("150.00"),
		BasketID:       "c-1",
		PaymentCard: &model.Card{
			CardHolderName: "Ada Lovelace",
			CardNumber:     "5528790000000008",
			ExpireYear:     "2030",
			ExpireMonth:    "12",
			CVC:            "123",
		},
		Buyer: &model.Buyer{
			ID: "7", Name: "Ada", Surname: "Lovelace", IdentityNumber: "10000000146",
			Email: "ada@example.com", GSMNumber: "+905551112233",
			RegistrationAddress: "Bagdat Cd. 1 <B>", City: "Istanbul", Country: "Türkiye", ZipCode: "34000",
			IP: "::1",
		},
		ShippingAddress: shipping,
		BillingAddress:  shipping,
		BasketItems: []model.BasketItem{
			{ID: "p1_0", Name: "Shirt & Co (red, M)", Category1: "Clothing", ItemType: model.BasketItemPhysical, Price: decimal.RequireFromString("140.00")},
			{ID: "SHIPPING_FEE", Name: "Shipping", Category1: "Logistics", ItemType: model.BasketItemVirtual, Price: decimal.RequireFromString("10")},
		},
		CallbackURL: "http://localhost:3002/payment/callback",
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"150":    "150.0",
		"150.00": "150.0",
		"12.50":  "12.5",
		"0":      "0.0",
		"0.01":   "0.01",
		"99.99":  "99.99",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in)), "input %s", in)
	}
}

func TestCanonicalPaymentBodyIsDeterministic(t *testing.T) {
	body, err := CanonicalPaymentBody(samplePaymentRequest())
	require.NoError(t, err)

	want := `{"locale":"tr","conversationId":"c-1","price":"150.0","paidPrice":"150.0","installment":"1","paymentChannel":"WEB","basketId":"c-1",` +
		`"paymentCard":{"cardHolderName":"Ada Lovelace","cardNumber":"5528790000000008","expireYear":"2030","expireMonth":"12","cvc":"123","registerCard":0},` +
		`"buyer":{"id":"7","name":"Ada","surname":"Lovelace","identityNumber":"10000000146","email":"ada@example.com","gsmNumber":"+905551112233",` +
		`"registrationAddress":"Bagdat Cd. 1 <B>","city":"Istanbul","country":"Türkiye","zipCode":"34000","ip":"127.0.0.1"},` +
		`"shippingAddress":{"address":"Bagdat Cd. 1 <B>","zipCode":"34000","contactName":"Ada Lovelace","city":"Istanbul","country":"Türkiye"},` +
		`"billingAddress":{"address":"Bagdat Cd. 1 <B>","zipCode":"34000","contactName":"Ada Lovelace","city":"Istanbul","country":"Türkiye"},` +
		`"basketItems":[{"id":"p1_0","price":"140.0","name":"Shirt & Co (red, M)","category1":"Clothing","itemType":"PHYSICAL"},` +
		`{"id":"SHIPPING_FEE","price":"10.0","name":"Shipping","category1":"Logistics","itemType":"VIRTUAL"}],` +
		`"currency":"TRY","callbackUrl":"http://localhost:3002/payment/callback"}`
	assert.Equal(t, want, string(body))

	again, err := CanonicalPaymentBody(samplePaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestCanonicalPaymentOptionalFields(t *testing.T) {
	req := samplePaymentRequest()
	sub := decimal.RequireFromString("90")
	req.BasketItems = []model.BasketItem{{
		ID: "p1", Name: "Shirt", Category1: "Clothing", Category2: "Tops", ItemType: model.BasketItemPhysical,
		Price: decimal.RequireFromString("100"), SubMerchantKey: "sm-1", SubMerchantPrice: &sub,
	}}
	req.PaymentGroup = "PRODUCT"
	req.Currency = "EUR"

	p := canonicalPayment(req)
	require.Len(t, p.BasketItems, 1)
	assert.Equal(t, "Tops", p.BasketItems[0].Category2)
	assert.Equal(t, "90.0", p.BasketItems[0].SubMerchantPrice)
	assert.Empty(t, p.BasketItems[0].WithholdingTax)
	assert.Equal(t, "PRODUCT", p.PaymentGroup)
	assert.Equal(t, "EUR", p.Currency)

	body, err := marshalCanonical(p)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "withholdingTax")
	assert.Contains(t, string(body), `"paymentGroup":"PRODUCT"`)
}

func TestCanonicalPaymentEmptyBasketIsArray(t *testing.T) {
	req := samplePaymentRequest()
	req.BasketItems = nil
	body, err := CanonicalPaymentBody(req)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"basketItems":[]`)
}

func TestMaskedForAuditHidesCardData(t *testing.T) {
	p := canonicalPayment(samplePaymentRequest())
	masked := maskedForAudit(p)

	assert.Equal(t, "************0008", masked.PaymentCard.CardNumber)
	assert.Equal(t, "***", masked.PaymentCard.CVC)
	assert.Equal(t, "5528790000000008", p.PaymentCard.CardNumber, "original payload must stay intact")

	p.PaymentCard = nil
	assert.Nil(t, maskedForAudit(p).PaymentCard)
}

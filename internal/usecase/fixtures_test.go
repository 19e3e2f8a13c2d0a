package usecase_test

import (
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/checkout/internal/config"
	"github.com/polkiloo/checkout/internal/domain/model"
	"github.com/polkiloo/checkout/internal/test"
	"github.com/polkiloo/checkout/internal/usecase"
)

const validIdentity = "10000000146"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func shirt() *model.Product {
	return &model.Product{
		ID:    "shirt",
		Name:  "Linen Shirt",
		Price: decimal.RequireFromString("100.50"),
		Stock: 10,
		ColorSizeStock: model.ColorSizeStock{
			"Red":  {"M": 2, "L": 0},
			"Blue": {"S": 4},
		},
	}
}

func scarf() *model.Product {
	return &model.Product{ID: "scarf", Name: "Silk Scarf", Price: decimal.RequireFromString("49.99"), Stock: 3}
}

func checkoutInput() usecase.InitializeInput {
	return usecase.InitializeInput{
		UserID:         7,
		IdentityNumber: validIdentity,
		Items: []usecase.CartItem{
			{ProductID: "shirt", Name: "client name", Image: "/img/shirt.jpg", Quantity: 2, Color: "Red", Size: "M"},
			{ProductID: "scarf", Quantity: 1},
		},
		ShippingAddress: model.ShippingAddress{Name: "Ayse Nur Yilmaz", Address: "Bagdat Cd. 1", City: "Istanbul", Country: "Turkey", PostalCode: "34728"},
		ContactInfo:     model.ContactInfo{Email: "ayse@example.com", Phone: "0532 111 22 33"},
		Card: model.Card{
			CardHolderName: "Ayse Yilmaz",
			CardNumber:     "5528 7900 0000 0008",
			ExpireMonth:    "12",
			ExpireYear:     "30",
			CVC:            "123",
		},
		ShippingCost: decimal.RequireFromString("29.90"),
		ClientIP:     "85.34.78.112",
	}
}

type paymentFixture struct {
	products *test.ProductRepositoryStub
	orders   *test.OrderRepositoryStub
	users    *test.UserRepositoryStub
	gateway  *test.GatewayStub
	uc       *usecase.PaymentUseCase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		products: test.NewProductRepositoryStub(shirt(), scarf()),
		orders:   test.NewOrderRepositoryStub(),
		users:    test.NewUserRepositoryStub(),
		gateway:  &test.GatewayStub{},
	}
	cfg := &config.Config{BackendURL: "https://api.shop.example/"}
	f.uc = usecase.NewPaymentUseCase(f.products, f.orders, f.users, f.gateway, cfg, discardLogger())
	return f
}

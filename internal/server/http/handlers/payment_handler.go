package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/checkout/internal/domain/model"
	"github.com/polkiloo/checkout/internal/server/http/dto"
	"github.com/polkiloo/checkout/internal/usecase"
)

const msgInitializeFailed = "payment could not be started"

// PaymentHandler serves the checkout endpoint.
type PaymentHandler struct {
	facade  PaymentFacade
	verbose bool
	logger  *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, verbose bool, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, verbose: verbose, logger: logger}
}

// Initialize handles POST /api/payment/initialize.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	var req dto.InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.facade.InitializePayment(c.Request.Context(), toInitializeInput(c, req))
	if err != nil {
		if status := errorStatus(err); status >= http.StatusInternalServerError {
			h.logger.Error("payment initialization failed", slog.String("error", err.Error()))
		}
		writeError(c, err, msgInitializeFailed, h.verbose)
		return
	}

	c.JSON(http.StatusOK, dto.InitializePaymentResponse{
		Success:            true,
		OrderID:            res.OrderID,
		ThreeDSHTMLContent: res.ThreeDSHTMLContent,
	})
}

func toInitializeInput(c *gin.Context, req dto.InitializePaymentRequest) usecase.InitializeInput {
	items := make([]usecase.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CartItem{
			ProductID: it.Product,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		})
	}
	return usecase.InitializeInput{
		UserID:          CurrentUserID(c),
		IdentityNumber:  req.IdentityNumber,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		ContactInfo:     req.ContactInfo,
		Card: model.Card{
			CardHolderName: req.PaymentCard.CardHolderName,
			CardNumber:     req.PaymentCard.CardNumber,
			ExpireMonth:    req.PaymentCard.ExpireMonth,
			ExpireYear:     req.PaymentCard.ExpireYear,
			CVC:            req.PaymentCard.CVC,
		},
		ShippingCost: req.ShippingCost,
		ClientIP:     usecase.ClientIP(c.GetHeader("X-Forwarded-For")),
	}
}

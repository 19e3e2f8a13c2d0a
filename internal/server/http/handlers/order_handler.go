package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/checkout/internal/server/http/dto"
	"github.com/polkiloo/checkout/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade  OrderFacade
	verbose bool
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, verbose bool) *OrderHandler {
	return &OrderHandler{facade: facade, verbose: verbose}
}

// Payment handles GET /api/payment/orders/:id.
func (h *OrderHandler) Payment(c *gin.Context) {
	view, err := h.facade.OrderPayment(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "order could not be loaded", h.verbose)
		return
	}
	c.JSON(http.StatusOK, toOrderPaymentResponse(view))
}

func toOrderPaymentResponse(view *usecase.OrderPayment) dto.OrderPaymentResponse {
	o := view.Order
	resp := dto.OrderPaymentResponse{
		OrderID:       o.ID,
		OrderStatus:   string(o.OrderStatus),
		PaymentStatus: string(o.PaymentStatus),
		TotalPrice:    o.TotalPrice.StringFixed(2),
		ShippingCost:  o.ShippingCost.StringFixed(2),
		PaymentID:     o.PaymentID,
		PaymentError:  o.PaymentError,
		Items:         o.Items,
		CreatedAt:     o.CreatedAt,
	}
	if g := view.Gateway; g != nil {
		resp.Gateway = &dto.GatewayPayment{
			Status:       g.Status,
			ErrorCode:    g.ErrorCode,
			ErrorMessage: g.ErrorMessage,
			Raw:          g.Raw,
		}
	}
	return resp
}

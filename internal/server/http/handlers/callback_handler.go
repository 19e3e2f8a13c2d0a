package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/checkout/internal/usecase"
)

// Storefront routes the browser is sent back to after a callback.
const (
	RedirectMissingOrderID = "/sepet?error=SiparisIDBulunamadi"
	RedirectOrderNotFound  = "/sepet?error=SiparisBulunamadi"
	RedirectAuthFailed     = "/odeme?error=DogrulamaHatasi"
	RedirectPaymentFailed  = "/odeme?error=OdemeBasarisiz"
	RedirectSystemError    = "/sepet?error=SistemselHata"
	redirectPaid           = "/siparisler?success=true&orderId="
)

// CallbackHandler receives the gateway's browser POST after the 3-D Secure challenge.
type CallbackHandler struct {
	facade      CallbackFacade
	frontendURL string
	logger      *slog.Logger
}

// NewCallbackHandler constructs CallbackHandler.
func NewCallbackHandler(facade CallbackFacade, frontendURL string, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{facade: facade, frontendURL: strings.TrimRight(frontendURL, "/"), logger: logger}
}

// Callback handles POST /api/payment/callback. It always answers with a 303.
func (h *CallbackHandler) Callback(c *gin.Context) {
	payload, err := parseCallbackBody(c)
	if err != nil {
		h.logger.Error("callback body unreadable", slog.String("error", err.Error()))
		h.redirect(c, RedirectSystemError)
		return
	}

	in := usecase.CallbackInput{
		PaymentID:      field(payload, "paymentId"),
		Status:         field(payload, "status"),
		ConversationID: field(payload, "conversationId"),
		MDStatus:       field(payload, "mdStatus"),
		ErrorMessage:   field(payload, "errorMessage"),
		Raw:            payload,
	}
	h.logger.Info("payment callback",
		slog.String("order", in.ConversationID), slog.String("status", in.Status), slog.String("mdStatus", in.MDStatus))

	res, err := h.facade.HandleCallback(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("callback reconciliation failed",
			slog.String("order", in.ConversationID), slog.String("error", err.Error()))
		h.redirect(c, RedirectSystemError)
		return
	}

	h.redirect(c, redirectFor(res))
}

// SystemErrorURL is where the browser goes when the callback cannot be processed.
func (h *CallbackHandler) SystemErrorURL() string {
	return h.frontendURL + RedirectSystemError
}

func (h *CallbackHandler) redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, h.frontendURL+path)
}

func redirectFor(res *usecase.CallbackResult) string {
	switch res.Outcome {
	case usecase.OutcomeMissingOrderID:
		return RedirectMissingOrderID
	case usecase.OutcomeOrderNotFound:
		return RedirectOrderNotFound
	case usecase.OutcomeAuthFailed:
		return RedirectAuthFailed
	case usecase.OutcomePaid:
		return redirectPaid + url.QueryEscape(res.OrderID)
	case usecase.OutcomePaymentFailed:
		return RedirectPaymentFailed
	default:
		return RedirectSystemError
	}
}

// parseCallbackBody reads a form-encoded or JSON callback into a flat map.
func parseCallbackBody(c *gin.Context) (map[string]any, error) {
	payload := map[string]any{}
	if c.ContentType() == gin.MIMEPOSTForm || c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				payload[k] = v[0]
			}
		}
		return payload, nil
	}

	if c.Request.Body == nil {
		return payload, nil
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return payload, nil
}

// field renders a payload value as a string; numbers keep their literal form.
func field(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

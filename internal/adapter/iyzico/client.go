package iyzico

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/polkiloo/checkout/internal/domain/model"
)

const (
	PathInitializeThreeDS = "/payment/3dsecure/initialize"
	PathAuthThreeDS       = "/payment/3dsecure/auth"
	PathPaymentDetail     = "/payment/detail"

	clientVersion = "checkout-go-1.0.0"
)

// Client exposes the gateway operations checkout relies on. Every call returns
// a normalized result; transport problems surface as a failure status.
type Client interface {
	InitializeThreeDS(ctx context.Context, req *model.PaymentRequest) *model.GatewayResult
	AuthThreeDS(ctx context.Context, paymentID, conversationID string) *model.GatewayResult
	RetrievePayment(ctx context.Context, paymentID string) *model.GatewayResult
}

// HTTPClient implements Client over the gateway's signed JSON API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	signer     Signer
	locale     string
	httpClient *http.Client
	nonce      func() string
	audit      AuditLog
	logger     *slog.Logger
}

// Option customizes HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithNonce replaces the random key generator.
func WithNonce(fn func() string) Option {
	return func(h *HTTPClient) { h.nonce = fn }
}

// WithAuditLog sets where requests and responses are recorded.
func WithAuditLog(a AuditLog) Option {
	return func(h *HTTPClient) { h.audit = a }
}

// WithLocale overrides the request locale.
func WithLocale(locale string) Option {
	return func(h *HTTPClient) { h.locale = locale }
}

// NewHTTPClient creates a gateway client with the given request timeout.
func NewHTTPClient(baseURL, apiKey, secretKey string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if apiKey == "" || secretKey == "" {
		return nil, errors.New("gateway credentials must be provided")
	}

	c := &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		signer:  NewSigner(apiKey, secretKey),
		locale:  defaultLocale,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		nonce:  newNonce,
		audit:  nopAuditLog{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// InitializeThreeDS starts a 3-D Secure payment. On success the result carries
// the decoded HTML challenge page.
func (c *HTTPClient) InitializeThreeDS(ctx context.Context, req *model.PaymentRequest) *model.GatewayResult {
	payload := canonicalPayment(req)
	if req.Locale == "" {
		payload.Locale = c.locale
	}
	return c.post(ctx, PathInitializeThreeDS, payload, maskedForAudit(payload))
}

// AuthThreeDS finalizes a payment after the cardholder completed the challenge.
func (c *HTTPClient) AuthThreeDS(ctx context.Context, paymentID, conversationID string) *model.GatewayResult {
	payload := authPayload{Locale: c.locale, ConversationID: conversationID, PaymentID: paymentID}
	return c.post(ctx, PathAuthThreeDS, payload, payload)
}

// RetrievePayment fetches the gateway's view of a payment.
func (c *HTTPClient) RetrievePayment(ctx context.Context, paymentID string) *model.GatewayResult {
	payload := detailPayload{Locale: c.locale, PaymentID: paymentID}
	return c.post(ctx, PathPaymentDetail, payload, payload)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, auditBody any) *model.GatewayResult {
	body, err := marshalCanonical(payload)
	if err != nil {
		return c.fail(path, fmt.Errorf("encode request: %w", err))
	}

	endpoint := c.baseURL.JoinPath(path)
	nonce := c.nonce()

	c.audit.Record("REQUEST "+path, map[string]any{
		"url":    endpoint.String(),
		"apiKey": redactKey(c.apiKey),
		"body":   auditBody,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return c.fail(path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-iyzi-rnd", nonce)
	req.Header.Set("x-iyzi-client-version", clientVersion)
	req.Header.Set("Authorization", c.signer.Authorization(nonce, path, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(path, fmt.Errorf("read response: %w", err))
	}

	raw, err := decodeObject(data)
	if err != nil {
		c.logger.Error("gateway returned unreadable body",
			slog.String("path", path), slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return c.fail(path, fmt.Errorf("unexpected gateway response (%s)", resp.Status))
	}

	result := toResult(raw)
	if result.ThreeDSHTMLContent != "" {
		if html, err := base64.StdEncoding.DecodeString(result.ThreeDSHTMLContent); err != nil {
			c.audit.Record("HTML DECODE ERROR "+path, map[string]any{"error": err.Error()})
			c.logger.Warn("3ds html content is not base64", slog.String("error", err.Error()))
		} else {
			result.ThreeDSHTMLContent = string(html)
			raw["threeDSHtmlContent"] = result.ThreeDSHTMLContent
		}
	}

	c.audit.Record("RESPONSE "+path, raw)
	return result
}

func (c *HTTPClient) fail(path string, err error) *model.GatewayResult {
	c.logger.Error("gateway request failed", slog.String("path", path), slog.String("error", err.Error()))
	c.audit.Record("ERROR "+path, map[string]any{"error": err.Error()})
	return &model.GatewayResult{
		Status:       model.GatewayStatusFailure,
		ErrorMessage: err.Error(),
		Raw: map[string]any{
			"status":       model.GatewayStatusFailure,
			"errorMessage": err.Error(),
		},
	}
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("empty response object")
	}
	return raw, nil
}

func toResult(raw map[string]any) *model.GatewayResult {
	r := &model.GatewayResult{
		Status:             stringField(raw, "status"),
		ErrorCode:          stringField(raw, "errorCode"),
		ErrorMessage:       stringField(raw, "errorMessage"),
		PaymentID:          stringField(raw, "paymentId"),
		ConversationID:     stringField(raw, "conversationId"),
		ThreeDSHTMLContent: stringField(raw, "threeDSHtmlContent"),
		Raw:                raw,
	}
	if r.Status == "" {
		r.Status = model.GatewayStatusFailure
	}
	return r
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/checkout/internal/pkg/auth"
	testhelpers "github.com/polkiloo/checkout/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type verifierFunc func(string) (*pkgAuth.Session, error)

func (f verifierFunc) VerifySession(token string) (*pkgAuth.Session, error) { return f(token) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.CheckoutFacadeStub{}))
	router.GET("/", func(c *gin.Context) {})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(verifierFunc(func(string) (*pkgAuth.Session, error) { return nil, pkgAuth.ErrInvalidToken })))
	router.GET("/", func(c *gin.Context) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(verifierFunc(func(string) (*pkgAuth.Session, error) { return nil, context.DeadlineExceeded })))
	router.GET("/", func(c *gin.Context) {})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var storedID int64
	router = gin.New()
	router.Use(AuthRequired(verifierFunc(func(token string) (*pkgAuth.Session, error) {
		if token != "cookie-token" {
			t.Errorf("unexpected token %q", token)
		}
		return &pkgAuth.Session{UserID: 42}, nil
	})))
	router.GET("/", func(c *gin.Context) {
		if v, ok := c.Get(UserIDContextKey); ok {
			storedID = v.(int64)
		}
		c.Status(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if storedID != 42 {
		t.Fatalf("expected user id 42, got %d", storedID)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	bearer := testhelpers.RandomASCIIString(16, 32)
	c.Request.Header.Set("Authorization", "Bearer "+bearer)
	if token := extractToken(c); token != bearer {
		t.Fatalf("expected token from header, got %q", token)
	}

	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestCORSHeaders(t *testing.T) {
	allowed := []string{"https://shop.example", "https://admin.example"}

	h := CORSHeaders("https://admin.example", allowed)
	if h["Access-Control-Allow-Origin"] != "https://admin.example" {
		t.Fatalf("expected listed origin echoed, got %q", h["Access-Control-Allow-Origin"])
	}
	h = CORSHeaders("https://evil.example", allowed)
	if h["Access-Control-Allow-Origin"] != "https://shop.example" {
		t.Fatalf("expected first origin for unknown caller, got %q", h["Access-Control-Allow-Origin"])
	}
	if h["Access-Control-Allow-Credentials"] != "true" {
		t.Fatalf("expected credentials allowed")
	}
	if got := CORSHeaders("", nil)["Access-Control-Allow-Origin"]; got != "*" {
		t.Fatalf("expected wildcard fallback, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://shop.example"}))
	called := false
	router.POST("/", func(c *gin.Context) { called = true; c.Status(http.StatusOK) })
	router.OPTIONS("/", func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
	if called {
		t.Fatalf("preflight must not reach handler")
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != corsMethods {
		t.Fatalf("unexpected methods header %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if !called || resp.Header().Get("Access-Control-Allow-Origin") != "https://shop.example" {
		t.Fatalf("expected handler with cors headers, called=%v headers=%v", called, resp.Header())
	}
}

func TestJSONRecovery(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		router := gin.New()
		router.Use(JSONRecovery(discardLogger(), verbose))
		router.GET("/", func(*gin.Context) { panic("kaboom") })

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.Code)
		}
		hasDetails := bytes.Contains(resp.Body.Bytes(), []byte("kaboom"))
		if hasDetails != verbose {
			t.Fatalf("verbose=%v but details present=%v: %s", verbose, hasDetails, resp.Body.String())
		}
	}
}

func TestRedirectRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RedirectRecovery(discardLogger(), "https://shop.example/sepet?error=SistemselHata"))
	router.POST("/", func(*gin.Context) { panic("kaboom") })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "https://shop.example/sepet?error=SistemselHata" {
		t.Fatalf("unexpected location %q", got)
	}
}

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest(0))
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader(buf.Bytes())))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for corrupt gzip, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader([]byte("plain"))))
	resp = httptest.NewRecorder()
	body = ""
	router.ServeHTTP(resp, req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Encoding", "br")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for unsupported encoding, got %d", resp.Code)
	}
}

func TestDecompressRequestLimitsBody(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(bytes.Repeat([]byte("a"), 64))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest(16))
	var readErr error
	router.POST("/", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Fatalf("expected max bytes error, got %v", readErr)
	}
}

func TestRequestLogger(t *testing.T) {
	levels := map[slog.Level]int{}
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				levels[lvl]++
			}
		}
		return a
	}})
	router := gin.New()
	router.Use(RequestLogger(slog.New(handler)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	if levels[slog.LevelInfo] != 1 || levels[slog.LevelError] != 1 {
		t.Fatalf("expected one info and one error entry, got %v", levels)
	}
}

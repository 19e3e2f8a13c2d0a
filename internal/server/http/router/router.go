package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/checkout/internal/config"
	"github.com/polkiloo/checkout/internal/server/http/handlers"
	"github.com/polkiloo/checkout/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CheckoutFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	verbose := cfg.Development()

	engine := gin.New()
	engine.Use(middleware.JSONRecovery(logger, verbose))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	paymentHandler := handlers.NewPaymentHandler(facade, verbose, logger)
	callbackHandler := handlers.NewCallbackHandler(facade, cfg.FrontendURL, logger)
	orderHandler := handlers.NewOrderHandler(facade, verbose)
	healthHandler := handlers.NewHealthHandler(facade, logger)

	engine.GET("/healthz", healthHandler.Check)

	payment := engine.Group("/api/payment")
	payment.OPTIONS("/initialize", preflight)
	payment.OPTIONS("/callback", preflight)
	payment.OPTIONS("/orders/:id", preflight)

	payment.POST("/callback", middleware.RedirectRecovery(logger, callbackHandler.SystemErrorURL()), callbackHandler.Callback)

	authorized := payment.Group("")
	authorized.Use(middleware.AuthRequired(facade))
	authorized.POST("/initialize", paymentHandler.Initialize)
	authorized.GET("/orders/:id", orderHandler.Payment)

	return engine
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	IyzicoAPIKey       string
	IyzicoSecretKey    string
	IyzicoURI          string
	FrontendURL        string
	BackendURL         string
	Environment        string
	SessionSecret      string
	AuditLogPath       string
	GatewayTimeout     time.Duration
	CORSAllowedOrigins []string
	PendingOrderTTL    time.Duration
	SweepInterval      time.Duration
	SweepBatch         int
	SweepWorkers       int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultIyzicoURI       = "https://sandbox-api.iyzipay.com"
	defaultFrontendURL     = "http://localhost:3001"
	defaultBackendURL      = "http://localhost:3002"
	defaultEnvironment     = EnvProduction
	defaultAuditLogPath    = "iyzico_audit.log"
	defaultGatewayTimeout  = 30 * time.Second
	defaultPendingOrderTTL = time.Hour
	defaultSweepInterval   = time.Minute
	defaultSweepBatch      = 32
	defaultSweepWorkers    = 2
	defaultShutdownTimeout = 10 * time.Second
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Development reports whether verbose error details may be exposed to clients.
func (c *Config) Development() bool {
	return c.Environment == EnvDevelopment
}

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		IyzicoAPIKey:    getString(lookup, "IYZICO_API_KEY", ""),
		IyzicoSecretKey: getString(lookup, "IYZICO_SECRET_KEY", ""),
		IyzicoURI:       getString(lookup, "IYZICO_URI", defaultIyzicoURI),
		FrontendURL:     getString(lookup, "FRONTEND_URL", defaultFrontendURL),
		BackendURL:      getString(lookup, "BACKEND_URL", defaultBackendURL),
		Environment:     getString(lookup, "APP_ENV", defaultEnvironment),
		SessionSecret:   getString(lookup, "SESSION_SECRET", ""),
		AuditLogPath:    getString(lookup, "AUDIT_LOG_PATH", defaultAuditLogPath),
		GatewayTimeout:  getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		PendingOrderTTL: getDuration(lookup, "PENDING_ORDER_TTL", defaultPendingOrderTTL),
		SweepInterval:   getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatch:      getInt(lookup, "SWEEP_BATCH", defaultSweepBatch),
		SweepWorkers:    getInt(lookup, "SWEEP_WORKERS", defaultSweepWorkers),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	origins := getString(lookup, "CORS_ALLOWED_ORIGINS", "")

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		pendingTTLStr      = cfg.PendingOrderTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.IyzicoAPIKey, "iyzico-api-key", cfg.IyzicoAPIKey, "Payment gateway API key")
	fs.StringVar(&cfg.IyzicoSecretKey, "iyzico-secret-key", cfg.IyzicoSecretKey, "Payment gateway secret key")
	fs.StringVar(&cfg.IyzicoURI, "iyzico-uri", cfg.IyzicoURI, "Payment gateway base URL")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "Storefront base URL for redirects")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Public base URL of this service")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Runtime environment (production, development)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for verifying session tokens")
	fs.StringVar(&cfg.AuditLogPath, "audit-log", cfg.AuditLogPath, "Gateway audit log file")
	fs.StringVar(&origins, "cors-origins", origins, "Comma separated list of allowed CORS origins")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Payment gateway request timeout")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which unpaid orders expire (0 disables)")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between stale order sweeps")
	fs.IntVar(&cfg.SweepBatch, "sweep-batch", cfg.SweepBatch, "Maximum orders per sweep")
	fs.IntVar(&cfg.SweepWorkers, "sweep-workers", cfg.SweepWorkers, "Number of concurrent sweep workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.PendingOrderTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending order ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := readSecretFile(lookup, "IYZICO_SECRET_KEY_FILE", &cfg.IyzicoSecretKey); err != nil {
		return nil, err
	}

	if err := readSecretFile(lookup, "SESSION_SECRET_FILE", &cfg.SessionSecret); err != nil {
		return nil, err
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.IyzicoURI = strings.TrimRight(cfg.IyzicoURI, "/")
	cfg.CORSAllowedOrigins = splitList(origins)
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendURL}
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.PendingOrderTTL < 0 {
		cfg.PendingOrderTTL = 0
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = defaultSweepBatch
	}

	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = defaultSweepWorkers
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.IyzicoAPIKey == "" || cfg.IyzicoSecretKey == "" {
		return nil, fmt.Errorf("payment gateway credentials must be provided")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret must be provided")
	}

	return cfg, nil
}

func readSecretFile(lookup envLookup, key string, dst *string) error {
	path, ok := lookup(key)
	if !ok || path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(key), err)
	}
	*dst = clean(string(content))
	return nil
}

// clean strips surrounding whitespace and quotes left by .env style files.
func clean(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)
	return strings.TrimSpace(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimRight(clean(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok {
		if v = clean(v); v != "" {
			return v
		}
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(clean(v)); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(clean(v)); err == nil {
			return d
		}
	}
	return def
}

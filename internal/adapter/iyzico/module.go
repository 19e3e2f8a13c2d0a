package iyzico

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/checkout/internal/config"
)

// Module exposes the gateway client and its audit log to fx graph.
var Module = fx.Options(
	fx.Provide(newAuditLog, newClient),
	fx.Invoke(registerLifecycle),
)

type auditParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newAuditLog(p auditParams) AuditLog {
	if p.Config.AuditLogPath == "" {
		return nopAuditLog{}
	}
	audit, err := OpenAuditLog(p.Config.AuditLogPath, p.Logger)
	if err != nil {
		p.Logger.Warn("gateway audit log disabled", slog.String("error", err.Error()))
		return nopAuditLog{}
	}
	return audit
}

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Audit  AuditLog
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(
		p.Config.IyzicoURI,
		p.Config.IyzicoAPIKey,
		p.Config.IyzicoSecretKey,
		p.Config.GatewayTimeout,
		p.Logger,
		WithAuditLog(p.Audit),
	)
}

func registerLifecycle(lc fx.Lifecycle, audit AuditLog) {
	closer, ok := audit.(interface{ Close() error })
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closer.Close()
		},
	})
}

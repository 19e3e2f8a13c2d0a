package auth

import (
	"github.com/polkiloo/checkout/internal/config"
	"go.uber.org/fx"
)

// Module provides session verification via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) Verifier {
	return NewSessionCodec(p.Config.SessionSecret, 0)
}

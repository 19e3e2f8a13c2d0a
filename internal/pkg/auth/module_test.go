package auth

import (
	"testing"
	"time"

	"github.com/polkiloo/checkout/internal/config"
)

func TestNewVerifier(t *testing.T) {
	verifier := newVerifier(verifierParams{Config: &config.Config{SessionSecret: "top-secret"}})
	codec, ok := verifier.(*SessionCodec)
	if !ok {
		t.Fatalf("expected *SessionCodec, got %T", verifier)
	}
	if string(codec.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(codec.secret))
	}
	if codec.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", codec.ttl)
	}
}

package iyzico

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const authScheme = "IYZWSv2 "

// Signer produces the gateway's HMAC authorization header.
type Signer struct {
	apiKey    string
	secretKey string
}

// NewSigner creates a signer for the given credentials.
func NewSigner(apiKey, secretKey string) Signer {
	return Signer{apiKey: apiKey, secretKey: secretKey}
}

// Signature returns hex(HMAC-SHA256(secret, nonce+path+body)).
func (s Signer) Signature(nonce, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(nonce))
	mac.Write([]byte(path))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Authorization returns the full Authorization header value.
func (s Signer) Authorization(nonce, path string, body []byte) string {
	params := fmt.Sprintf("apiKey:%s&randomKey:%s&signature:%s", s.apiKey, nonce, s.Signature(nonce, path, body))
	return authScheme + base64.StdEncoding.EncodeToString([]byte(params))
}

var nonceLimit = big.NewInt(1_000_000)

// newNonce returns unix seconds followed by six random digits.
func newNonce() string {
	n, err := rand.Int(rand.Reader, nonceLimit)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % nonceLimit.Int64())
	}
	return fmt.Sprintf("%d%06d", time.Now().Unix(), n.Int64())
}

func redactKey(key string) string {
	if len(key) > 4 {
		key = key[:4]
	}
	return key + "..."
}

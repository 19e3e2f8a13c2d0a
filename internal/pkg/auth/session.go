package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid session token")

const tokenVersion = "v1"

// Session identifies the customer behind a request.
type Session struct {
	UserID    int64
	ExpiresAt time.Time
}

// Verifier turns a bearer token into a session.
type Verifier interface {
	Verify(token string) (*Session, error)
}

// SessionCodec signs and verifies session tokens shared with the storefront's
// login service. Tokens look like v1.<payload>.<signature>, both parts base64url.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec builds a codec; a non-positive ttl falls back to one day.
func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the user.
func (c *SessionCodec) Issue(userID int64) string {
	expires := c.now().Add(c.ttl).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%d:%d", userID, expires)))
	return tokenVersion + "." + payload + "." + c.sign(payload)
}

// Verify validates signature and expiry.
func (c *SessionCodec) Verify(token string) (*Session, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != tokenVersion {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal([]byte(c.sign(parts[1])), []byte(parts[2])) {
		return nil, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}
	fields := strings.Split(string(raw), ":")
	if len(fields) != 2 {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt := time.Unix(expires, 0)
	if !expiresAt.After(c.now()) {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: userID, ExpiresAt: expiresAt}, nil
}

func (c *SessionCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(tokenVersion))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

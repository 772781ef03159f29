// Package session implements the stateless lookup credential: an
// HMAC-signed, time-windowed token the server hands out after a caller
// proves it is human. The token is entirely client-held; the server keeps
// no session table, so a signed unexpired token is always accepted and the
// only revocation is expiry.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is how long a token stays valid after issuance. Every
// successful lookup re-issues a fresh token, sliding the window forward.
const DefaultWindow = 10 * time.Minute

var (
	// ErrMalformedToken means the token is not base64 or lacks the
	// timestamp:signature shape.
	ErrMalformedToken = errors.New("malformed session token")
	// ErrInvalidTimestamp means the timestamp segment is not an integer.
	ErrInvalidTimestamp = errors.New("invalid token timestamp")
)

// Codec issues and verifies session tokens. It is pure with respect to its
// inputs, the injected clock, and the fixed secret; concurrent use needs no
// locking.
type Codec struct {
	secret []byte
	window time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithWindow overrides the validity window.
func WithWindow(d time.Duration) Option {
	return func(c *Codec) {
		c.window = d
	}
}

// WithClock injects a clock, mainly so tests can step time.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret []byte, opts ...Option) *Codec {
	c := &Codec{
		secret: secret,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue returns a fresh token: base64 of "<issuedAtMillis>:<hexSignature>"
// where the signature is HMAC-SHA256 over the millisecond timestamp string.
func (c *Codec) Issue() string {
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	payload := ts + ":" + c.sign(ts)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// Verify reports whether the token was signed by this codec's secret and
// has not outlived the window. Age exactly equal to the window is still
// valid; one past it is not. Signatures are compared in constant time
// since this gates an anti-abuse check.
func (c *Codec) Verify(token string) bool {
	ts, sig, err := split(token)
	if err != nil {
		return false
	}
	issuedAt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if c.now().UnixMilli()-issuedAt > c.window.Milliseconds() {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(c.sign(ts)))
}

// Decode parses a token without verifying it. All failure paths on
// attacker-controlled input come back as typed errors, never panics.
func Decode(token string) (issuedAt int64, signature string, err error) {
	ts, sig, err := split(token)
	if err != nil {
		return 0, "", err
	}
	issuedAt, perr := strconv.ParseInt(ts, 10, 64)
	if perr != nil {
		return 0, "", ErrInvalidTimestamp
	}
	return issuedAt, sig, nil
}

// split undoes the base64 wrapping and cuts the payload at the first colon,
// keeping the raw timestamp string so verification signs exactly the bytes
// that were signed at issuance.
func split(token string) (ts, sig string, err error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrMalformedToken
	}
	ts, sig, ok := strings.Cut(string(decoded), ":")
	if !ok || ts == "" || sig == "" {
		return "", "", ErrMalformedToken
	}
	return ts, sig, nil
}

func (c *Codec) sign(ts string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}

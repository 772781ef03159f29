// Package captcha verifies caller-supplied CAPTCHA proofs against an
// external provider. The wire shape (POST secret+response as a form, JSON
// back with a success flag) is shared by reCAPTCHA, hCaptcha, and
// Turnstile; the provider URL and the location of the success flag in the
// response are both configurable, so switching providers is a config
// change.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/itchyny/gojq"
)

// DefaultVerifyURL is Google reCAPTCHA's verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// DefaultSuccessPath extracts the boolean success flag all major providers
// return.
const DefaultSuccessPath = ".success"

// Verifier checks proofs against one provider.
type Verifier struct {
	verifyURL   string
	secret      string
	successPath *gojq.Query
	httpClient  *http.Client
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		v.httpClient = c
	}
}

// New creates a verifier for the provider at verifyURL using the shared
// secret. successPath is a jq expression locating the success flag in the
// provider's JSON response; empty means DefaultSuccessPath.
func New(verifyURL, secret, successPath string, opts ...Option) (*Verifier, error) {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	if successPath == "" {
		successPath = DefaultSuccessPath
	}
	q, err := gojq.Parse(successPath)
	if err != nil {
		return nil, fmt.Errorf("parsing captcha success path %q: %w", successPath, err)
	}

	v := &Verifier{
		verifyURL:   verifyURL,
		secret:      secret,
		successPath: q,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify submits the proof to the provider and reports whether it passed.
// An empty proof is a plain false without a network call. Transport and
// decode failures are errors, distinct from a definitive "not human".
func (v *Verifier) Verify(ctx context.Context, proof string) (bool, error) {
	if proof == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", proof)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha provider returned status %d", resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("decoding provider response: %w", err)
	}

	ok := v.successFlag(payload)
	if !ok {
		slog.Debug("captcha proof rejected by provider")
	}
	return ok, nil
}

// successFlag runs the configured jq path over the decoded response and
// treats only a literal true as success.
func (v *Verifier) successFlag(payload any) bool {
	iter := v.successPath.Run(payload)
	val, ok := iter.Next()
	if !ok {
		return false
	}
	if _, isErr := val.(error); isErr {
		return false
	}
	b, isBool := val.(bool)
	return isBool && b
}

package lookup

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/fleetscope/carriercheck/internal/safer"
)

// Error codes for lookup failures.
const (
	// ErrCodeInvalidInput: the caller's query is missing or malformed;
	// correct and resubmit.
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeAuthFailed: no valid session token and no passing CAPTCHA
	// proof; the caller must re-prove humanity and clear any held token.
	ErrCodeAuthFailed = "AUTH_FAILED"
	// ErrCodeCaptchaProvider: the CAPTCHA provider was unreachable or
	// answered garbage. The proof was never judged, so this is a
	// try-again-later failure, not a rejection.
	ErrCodeCaptchaProvider = "CAPTCHA_PROVIDER_ERROR"
	// ErrCodeUpstream: the registry was unreachable or answered non-200;
	// transient, the caller may retry later. Never auto-retried here.
	ErrCodeUpstream = "UPSTREAM_ERROR"
	// ErrCodeTimeout: the registry stalled past the bounded wait.
	ErrCodeTimeout = "TIMEOUT"
)

// CodedError is an error with an associated failure code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput flags a missing or malformed request field by name.
func ErrInvalidInput(field string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("missing or invalid field: %s", field),
	}
}

// ErrAuthFailed flags a failed authentication attempt.
func ErrAuthFailed(message string) error {
	return &CodedError{
		Code:    ErrCodeAuthFailed,
		Message: message,
	}
}

// wrapUpstream converts a fetch failure into a coded error, distinguishing
// a stalled registry from one that answered badly.
func wrapUpstream(err error) error {
	var upstreamErr *safer.UpstreamError
	if errors.As(err, &upstreamErr) {
		return &CodedError{
			Code:    ErrCodeUpstream,
			Message: upstreamErr.Error(),
			Cause:   err,
		}
	}

	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) ||
		strings.Contains(err.Error(), "context deadline exceeded") {
		return &CodedError{
			Code:    ErrCodeTimeout,
			Message: "registry request timed out",
			Cause:   err,
		}
	}

	return &CodedError{
		Code:    ErrCodeUpstream,
		Message: "registry unreachable",
		Cause:   err,
	}
}

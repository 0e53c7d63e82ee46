package concierge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

// Kind classifies a failed generation attempt so the UI layer can pick the
// right user-facing copy. Exactly one kind is assigned per attempt; there
// are no retries at this layer.
type Kind int

const (
	KindGeneration Kind = iota
	KindConfiguration
	KindEmptyResponse
	KindParsing
	KindAccessDenied
	KindRateLimited
	KindSafetyBlocked
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindEmptyResponse:
		return "empty_response"
	case KindParsing:
		return "parsing"
	case KindAccessDenied:
		return "access_denied"
	case KindRateLimited:
		return "rate_limited"
	case KindSafetyBlocked:
		return "safety_blocked"
	default:
		return "generation"
	}
}

// Error is the single error type this package returns. RawPrefix is only
// set for parsing failures and carries a bounded slice of the offending
// model output, never the full payload.
type Error struct {
	Kind      Kind
	Message   string
	RawPrefix string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the kind from any error returned by this package.
// Unrelated errors classify as the generic generation kind.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindGeneration
}

// rawPreviewLimit bounds the diagnostic text attached to parsing errors.
const rawPreviewLimit = 120

func parsingError(raw string, cause error) *Error {
	prefix := raw
	if len(prefix) > rawPreviewLimit {
		prefix = prefix[:rawPreviewLimit] + "..."
	}
	return &Error{
		Kind:      KindParsing,
		Message:   "the AI response could not be read",
		RawPrefix: prefix,
		cause:     cause,
	}
}

// classify maps a transport failure to an error kind, preferring structured
// status codes over message text. Substring checks are the last resort for
// transports that surface nothing better.
func classify(err error) *Error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &Error{
			Kind:    KindSafetyBlocked,
			Message: "the request was withheld by content-safety policy",
			cause:   err,
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Error{
				Kind:    KindAccessDenied,
				Message: "the API key is invalid or expired",
				cause:   err,
			}
		case http.StatusTooManyRequests:
			return &Error{
				Kind:    KindRateLimited,
				Message: "too many requests; wait a moment and try again",
				cause:   err,
			}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return &Error{
			Kind:    KindAccessDenied,
			Message: "the API key is invalid or expired",
			cause:   err,
		}
	case strings.Contains(msg, "429"):
		return &Error{
			Kind:    KindRateLimited,
			Message: "too many requests; wait a moment and try again",
			cause:   err,
		}
	case strings.Contains(msg, "safety"), strings.Contains(msg, "blocked"):
		return &Error{
			Kind:    KindSafetyBlocked,
			Message: "the request was withheld by content-safety policy",
			cause:   err,
		}
	}

	return &Error{
		Kind:    KindGeneration,
		Message: "gift generation failed",
		cause:   err,
	}
}

// Package provider defines the core types of the streaming search client and
// the machinery shared by every provider: the SSE aggregator, the outcome
// classifier, the retry policy and the retrying orchestrator that drives one
// logical request through as many streaming attempts as the policy allows.
//
// Design principles:
//   - Idiomatic Go: context propagation, error values, functional options
//   - go-resty/v2 as the HTTP transport layer (see the grok package)
//   - spf13/viper for configuration management
//   - One shared attempt counter per logical request, across every failure class
//   - Fatal errors are returned unchanged so callers can branch on their type
//   - Registry/factory pattern for provider discovery
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/sanix-darker/grok-search/internal/metrics"
)

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Operation names the public request shape a stream is opened for.
type Operation string

const (
	OpSearch Operation = "search"
	OpFetch  Operation = "fetch"
)

// ---------------------------------------------------------------------------
// Error types
// ---------------------------------------------------------------------------

// ErrorCode classifies configuration and request errors that never reach
// the network and are therefore never retried.
type ErrorCode string

const (
	ErrCodeAuthentication ErrorCode = "authentication"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeUnknown        ErrorCode = "unknown"
)

// ProviderError is a structured error for failures detected before or
// outside a streaming attempt (missing credentials, bad input, endpoint
// validation). It supports errors.Is matching by code.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Provider   string
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Provider, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match ProviderErrors by code.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for use with errors.Is().
var (
	ErrAuthentication = &ProviderError{Code: ErrCodeAuthentication}
	ErrInvalidRequest = &ProviderError{Code: ErrCodeInvalidRequest}
)

// NetworkError is a transport-level failure that carries no HTTP status:
// connection refused or reset, DNS failure, timeout, a stream cut short.
// It is always eligible for retry while budget remains.
type NetworkError struct {
	Provider string
	Op       string
	Cause    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("[%s] network error during %s: %v", e.Provider, e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the underlying cause was a timeout.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Cause, &ne) && ne.Timeout()
}

// StatusError is returned when the upstream answered with a non-200 status.
// It is retried only when its code is listed in RetryConfig.ExtraStatusCodes.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("[%s] HTTP %d: %s", e.Provider, e.StatusCode, msg)
}

// Is matches another *StatusError carrying the same status code, so that
//
//	errors.Is(err, &provider.StatusError{StatusCode: http.StatusForbidden})
//
// works regardless of provider or message.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// ---------------------------------------------------------------------------
// Provider metadata
// ---------------------------------------------------------------------------

// ProviderInfo describes a registered provider for introspection and
// user-facing help text.
type ProviderInfo struct {
	// Name is the canonical short name used in configuration (e.g. "grok").
	Name string

	// DisplayName is the human-readable name.
	DisplayName string

	// Description is a one-line summary for help text.
	Description string

	// Model is the model the provider will request.
	Model string
}

// ---------------------------------------------------------------------------
// Core interface
// ---------------------------------------------------------------------------

// SearchProvider is implemented by every streaming search backend. Search
// and Fetch differ only in the request they open; both run through the same
// Retrier and return the same error taxonomy.
type SearchProvider interface {
	// Info returns static metadata about this provider.
	Info() ProviderInfo

	// Search answers a free-form query and returns the aggregated text.
	Search(ctx context.Context, query string) (string, error)

	// Fetch retrieves and summarises the content behind a URL.
	Fetch(ctx context.Context, url string) (string, error)

	// Validate checks that the provider is correctly configured (API key
	// present, endpoint reachable) and returns a descriptive error if not.
	Validate(ctx context.Context) error
}

// Deps carries the shared infrastructure a Factory wires into a provider.
// Zero values are valid: a nil Logger discards, a nil Recorder records nothing.
type Deps struct {
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

// ---------------------------------------------------------------------------
// Request scoped values
// ---------------------------------------------------------------------------

type requestIDKey struct{}

// WithRequestID returns a context carrying the logical request id that is
// reused by every attempt of the same Search or Fetch call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

package provider

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// OutcomeKind labels the result of one streaming attempt.
type OutcomeKind int

const (
	OutcomeContent OutcomeKind = iota
	OutcomeEmpty
	OutcomeNetworkFailure
	OutcomeStatusFailure
	OutcomeUnhandledFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContent:
		return "content"
	case OutcomeEmpty:
		return "empty"
	case OutcomeNetworkFailure:
		return "network_error"
	case OutcomeStatusFailure:
		return "status_error"
	case OutcomeUnhandledFailure:
		return "unhandled_error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one attempt. Text is set for
// OutcomeContent, StatusCode for OutcomeStatusFailure and Err for every
// failure kind.
type Outcome struct {
	Kind       OutcomeKind
	Text       string
	StatusCode int
	Err        error
}

// Classify maps the aggregated text or the error of one attempt to an
// Outcome. A caller-side cancellation is unhandled, never a network failure.
func Classify(text string, err error) Outcome {
	if err == nil {
		if strings.TrimSpace(text) == "" {
			return Outcome{Kind: OutcomeEmpty}
		}
		return Outcome{Kind: OutcomeContent, Text: text}
	}

	var se *StatusError
	if errors.As(err, &se) {
		return Outcome{Kind: OutcomeStatusFailure, StatusCode: se.StatusCode, Err: err}
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		return Outcome{Kind: OutcomeNetworkFailure, Err: err}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Kind: OutcomeUnhandledFailure, Err: err}
	}

	if isTransportError(err) {
		return Outcome{Kind: OutcomeNetworkFailure, Err: err}
	}

	return Outcome{Kind: OutcomeUnhandledFailure, Err: err}
}

// isTransportError recognises raw transport failures coming from an OpenFunc
// that did not wrap them in a NetworkError.
func isTransportError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
